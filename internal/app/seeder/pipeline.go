package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// allPhases defines the canonical execution order. Questions reference
// categories, so categories go first.
var allPhases = []string{"categories", "signs", "questions"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Written  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline imports a catalogue phase by phase inside one transaction.
type Pipeline struct {
	log     *slog.Logger
	repos   Repos
	cfg     Config
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repos Repos, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		repos:   repos,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run writes cat. A failing phase rolls the whole import back. In dry-run
// mode nothing is written and every item is counted as skipped.
func (p *Pipeline) Run(ctx context.Context, cat *Catalogue) error {
	if p.cfg.DryRun {
		p.results["categories"] = PhaseResult{Skipped: len(cat.Categories)}
		p.results["signs"] = PhaseResult{Skipped: len(cat.Signs)}
		p.results["questions"] = PhaseResult{Skipped: len(cat.Questions)}
		p.log.Info("dry run: catalogue is valid",
			slog.Int("categories", len(cat.Categories)),
			slog.Int("signs", len(cat.Signs)),
			slog.Int("questions", len(cat.Questions)),
		)
		return nil
	}

	err := p.repos.Tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, phase := range allPhases {
			start := time.Now()
			p.log.Info("starting phase", slog.String("phase", phase))

			var result PhaseResult
			switch phase {
			case "categories":
				result.Written, result.Err = batchProcess(cat.Categories, p.cfg.BatchSize, func(b []domain.Category) (int, error) {
					return p.repos.Categories.UpsertBatch(ctx, b)
				})
			case "signs":
				result.Written, result.Err = batchProcess(cat.Signs, p.cfg.BatchSize, func(b []domain.TrafficSign) (int, error) {
					return p.repos.Signs.UpsertBatch(ctx, b)
				})
			case "questions":
				result.Written, result.Err = batchProcess(cat.Questions, p.cfg.BatchSize, func(b []domain.QuizQuestion) (int, error) {
					return p.repos.Questions.UpsertBatch(ctx, b)
				})
			}
			result.Duration = time.Since(start)
			p.results[phase] = result

			if result.Err != nil {
				p.log.Warn("phase failed",
					slog.String("phase", phase),
					slog.String("error", result.Err.Error()),
					slog.Duration("duration", result.Duration),
				)
				return fmt.Errorf("seed %s: %w", phase, result.Err)
			}
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("written", result.Written),
				slog.Duration("duration", result.Duration),
			)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(allPhases)))
	return nil
}

func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
