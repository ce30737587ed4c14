// Command reagent is an interactive REPL over the agent system. It talks to
// any OpenAI-compatible endpoint (including a local Ollama server), the
// Anthropic API, or a scripted mock, and can switch between a single
// all-tools agent and the orchestrator pipeline mid-session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/hupe1980/reagent"
	"github.com/hupe1980/reagent/logging"
	"github.com/hupe1980/reagent/model"
	anthropicmodel "github.com/hupe1980/reagent/model/anthropic"
	"github.com/hupe1980/reagent/model/openai"
)

// CLI defines the command-line interface.
type CLI struct {
	Provider string `default:"openai" enum:"openai,anthropic,mock" help:"Model provider"`
	Model    string `help:"Model identifier (provider default if empty)"`
	BaseURL  string `name:"base-url" help:"OpenAI-compatible endpoint, e.g. http://localhost:11434/v1 for Ollama"`
	APIKey   string `name:"api-key" env:"REAGENT_API_KEY" help:"API key (falls back to provider env vars)"`

	Mode            string `default:"multi" enum:"single,multi" help:"Initial run mode"`
	NoReview        bool   `help:"Disable the review loop in multi mode"`
	MaxRounds       int    `default:"10" help:"Tool rounds per agent"`
	MaxReviewCycles int    `default:"2" help:"Review cycles per subtask"`
	TraceDir        string `default:"logs/agent_traces" help:"Trace artifact directory"`
	Verbose         bool   `short:"v" help:"Structured debug logging to stderr"`
}

func main() {
	// A missing .env is fine; flags and real env vars still apply.
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("reagent"),
		kong.Description("ReAct agents with an orchestrator pipeline."),
	)
	kctx.FatalIfErrorf(run(&cli))
}

func run(cli *CLI) error {
	m, err := buildModel(cli)
	if err != nil {
		return err
	}

	level := logging.LevelWarn
	if cli.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(&logging.Config{Level: level, Format: "text", Output: os.Stderr})

	app := reagent.New(m, func(o *reagent.Options) {
		o.MaxRounds = cli.MaxRounds
		o.Review = !cli.NoReview
		o.MaxReviewCycles = cli.MaxReviewCycles
		o.TraceDir = cli.TraceDir
		o.Logger = logger
	})

	info := m.Info()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("reagent — ReAct agents + orchestrator")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Provider:   %s\n", info.Provider)
	fmt.Printf("  Model:      %s\n", info.Name)
	fmt.Printf("  Max rounds: %d\n", cli.MaxRounds)
	fmt.Printf("  Review:     %t\n", !cli.NoReview)

	mode := cli.Mode
	fmt.Printf("\nMode: %s\n", mode)
	fmt.Println("  'mode'  — switch between single / multi")
	fmt.Println("  'quit'  — exit")
	fmt.Println("\nReady. Type your task.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nExiting.")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Exiting.")
			return nil
		case "mode":
			if mode == "multi" {
				mode = "single"
			} else {
				mode = "multi"
			}
			fmt.Printf("\n  Switched to: %s\n\n", mode)
			continue
		}

		fmt.Println()
		var answer, tracePath string
		var traceErr error
		if mode == "single" {
			answer = app.RunSingle(context.Background(), input)
			tracePath, traceErr = app.SaveSingleTrace()
		} else {
			answer = app.RunMulti(context.Background(), input)
			tracePath, traceErr = app.SaveMultiTrace()
		}
		if traceErr != nil {
			fmt.Fprintf(os.Stderr, "  [trace not saved: %v]\n", traceErr)
		} else {
			fmt.Printf("  [Trace saved to %s]\n", tracePath)
		}

		fmt.Printf("\nAnswer: %s\n\n", answer)
		fmt.Println(strings.Repeat("-", 40))
	}
}

// buildModel constructs the model boundary for the selected provider.
func buildModel(cli *CLI) (model.Model, error) {
	switch cli.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cli.Model != "" {
				o.Model = cli.Model
			}
			o.BaseURL = cli.BaseURL
			o.APIKey = cli.APIKey
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cli.Model != "" {
				o.Model = anthropic.Model(cli.Model)
			}
			o.APIKey = cli.APIKey
		}), nil
	case "mock":
		return model.NewMockModel(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cli.Provider)
	}
}
