package orchestrator

import (
	"context"
	"fmt"

	"github.com/hupe1980/reagent/protocol"
	"github.com/hupe1980/reagent/trace"
)

// review runs the bounded verdict loop over one subtask result. Each cycle
// a fresh reviewer judges the candidate; a FEEDBACK verdict triggers one
// corrective re-run by a fresh same-role agent. After the cycle ceiling the
// last candidate is accepted unconditionally so the pipeline never stalls.
func (o *Orchestrator) review(ctx context.Context, st Subtask, candidate string, subStep int) string {
	for cycle := 1; cycle <= o.opts.MaxReviewCycles; cycle++ {
		reviewStep := o.rec.Append(subStep, trace.Step{
			Kind:      trace.KindReview,
			Role:      string(RoleReviewer),
			SubtaskID: st.ID,
			Round:     cycle,
		})

		reviewer := o.newAgent(RoleReviewer, st.ID, reviewStep)
		reviewInput := fmt.Sprintf(
			"Original task (assigned to a %s agent):\n%s\n\nResult produced:\n%s\n\nEvaluate the result and give your verdict.",
			st.Role, st.Task, candidate,
		)
		reviewOut := reviewer.Run(ctx, reviewInput)

		_, visible := protocol.StripReasoning(reviewOut)
		verdict, feedback := protocol.ParseVerdict(visible)
		o.rec.SetVerdict(reviewStep, verdict.String(), feedback)
		o.logger.Info("review verdict", "subtask", st.ID, "cycle", cycle, "verdict", verdict.String())

		if verdict == protocol.VerdictPass {
			return candidate
		}

		retryStep := o.rec.Append(subStep, trace.Step{
			Kind:      trace.KindRetry,
			Role:      string(st.Role),
			SubtaskID: st.ID,
			Round:     cycle,
			Feedback:  feedback,
		})

		retryTask := fmt.Sprintf(
			"%s\n\nYour previous attempt:\n%s\n\nA reviewer found these issues:\n%s\n\nFix the issues and produce an improved result.",
			st.Task, candidate, feedback,
		)
		worker := o.newAgent(st.Role, st.ID, retryStep)
		candidate = worker.Run(ctx, retryTask)
		o.rec.SetResult(retryStep, candidate)
	}

	o.logger.Warn("review cycle limit reached, accepting last result", "subtask", st.ID)
	return candidate
}
