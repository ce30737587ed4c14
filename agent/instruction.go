package agent

import (
	"fmt"

	"github.com/hupe1980/reagent/tool"
)

// responseGrammar is the ReAct format contract appended to every
// tool-using agent's instructions. The markers here must stay in sync with
// the protocol package.
const responseGrammar = `YOU MUST ALWAYS FOLLOW THIS FORMAT:

1. ALWAYS start with a Thought — reason about what you know and what you need.
2. Then EITHER use a tool OR give your final answer.

FORMAT WHEN USING A TOOL:
Thought: <your reasoning about what to do next>
Act: [TOOL_CALL] {"name": "tool_name", "arguments": {"arg1": "value1"}}

FORMAT WHEN GIVING YOUR FINAL ANSWER (no more tools needed):
Thought: <your reasoning about why you are done>
Answer: <your final answer to the user>

RULES:
- Every response MUST start with "Thought:"
- After Act, STOP. Do not write anything after [TOOL_CALL]. Wait for the result.
- You will receive tool results as: Observe: <result>
- After Observe, start your next Thought.
- Only call ONE tool at a time.
- The JSON after [TOOL_CALL] must be valid JSON on a single line.
- If you do NOT need any tools, go straight to Thought + Answer.
- Always end with "Answer:" when you have your final response.`

// forcedAnswerPrompt is the corrective message issued once the round limit
// is reached without a final answer.
const forcedAnswerPrompt = "You have used all available tool rounds. " +
	"Give your best final answer now based on what you have so far.\n\n" +
	"Thought: <summarize what you know>\n" +
	"Answer: <your final answer>"

// BuildSystemPrompt assembles the full system message: base role
// instructions plus, when the agent carries tools, the enumerated tool set
// and the required response grammar. An answer-only agent gets its base
// instructions untouched.
func BuildSystemPrompt(base string, tools *tool.Registry) string {
	if tools == nil || len(tools.Names()) == 0 {
		return base
	}
	return fmt.Sprintf("%s\n\nYou have access to the following tools:\n\n%s\n\n%s",
		base, tools.Describe(), responseGrammar)
}
