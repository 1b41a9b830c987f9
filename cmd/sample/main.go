// Command sample runs the analysis workflow against a set of embedded
// requirements documents using an in-memory checkpoint store. It exercises
// the full author → critic pipeline against a live completion backend
// without needing Postgres or blob storage.
package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/checklist"
	"github.com/JaimeStill/reqguard/internal/prompts"
	"github.com/JaimeStill/reqguard/internal/scoring"
	"github.com/JaimeStill/reqguard/internal/workflow"
)

//go:embed samples/*.txt
var samples embed.FS

var agentEnv = &agent.Env{
	BaseURL:        "REQGUARD_AGENT_BASE_URL",
	APIKey:         "REQGUARD_AGENT_API_KEY",
	Model:          "REQGUARD_AGENT_MODEL",
	MaxTokens:      "REQGUARD_AGENT_MAX_TOKENS",
	Temperature:    "REQGUARD_AGENT_TEMPERATURE",
	RequestTimeout: "REQGUARD_AGENT_REQUEST_TIMEOUT",
}

var scoringEnv = &scoring.Env{
	CompleteThreshold: "REQGUARD_SCORING_COMPLETE_THRESHOLD",
	PartialThreshold:  "REQGUARD_SCORING_PARTIAL_THRESHOLD",
	MaxQuestions:      "REQGUARD_SCORING_MAX_QUESTIONS",
}

// defaultPrompts serves the hardcoded stage prompts without a database.
type defaultPrompts struct{}

func (defaultPrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Instructions(stage)
}

func (defaultPrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

type result struct {
	name  string
	state *workflow.AnalysisState
}

func main() {
	var agentCfg agent.Config
	if err := agentCfg.Finalize(agentEnv); err != nil {
		log.Fatal("agent config: ", err)
	}

	var scoringCfg scoring.Config
	if err := scoringCfg.Finalize(scoringEnv); err != nil {
		log.Fatal("scoring config: ", err)
	}

	checklists, err := checklist.NewStore()
	if err != nil {
		log.Fatal("load checklists: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	rt := &workflow.Runtime{
		Agent:         agent.New(&agentCfg, logger),
		Checklists:    checklists,
		Prompts:       defaultPrompts{},
		Scoring:       scoringCfg,
		Store:         workflow.NewMemoryStore(),
		MaxIterations: 3,
		PrefixLimit:   4000,
		Logger:        logger,
	}

	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		log.Fatal("read samples: ", err)
	}

	results := make([]result, len(entries))

	g, ctx := errgroup.WithContext(context.Background())
	for i, entry := range entries {
		g.Go(func() error {
			data, err := samples.ReadFile("samples/" + entry.Name())
			if err != nil {
				return err
			}

			state, err := rt.Start(ctx, uuid.New(), string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Name(), err)
			}

			results[i] = result{
				name:  strings.TrimSuffix(entry.Name(), ".txt"),
				state: state,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("sample run failed: ", err)
	}

	for _, r := range results {
		report(r)
	}
}

func report(r result) {
	s := r.state

	fmt.Printf("=== %s ===\n", r.name)
	fmt.Printf("loan type:  %s\n", s.Author.LoanClassification.PrimaryType)
	fmt.Printf("confidence: %.0f%%\n", s.Confidence*100)
	fmt.Printf("outcome:    %s\n", s.Outcome)
	fmt.Printf("phase:      %s", s.Phase)
	if s.Reason != "" {
		fmt.Printf(" (%s)", s.Reason)
	}
	fmt.Println()
	fmt.Printf("gaps:       %d\n", len(s.Critic.Gaps))

	if len(s.Questions) > 0 {
		fmt.Println("questions:")
		for _, q := range s.Questions {
			fmt.Printf("  [%s] %s\n", q.Severity, q.Question)
		}
	}
	fmt.Println()
}
