package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Target is the system under evaluation
type Target func(ctx context.Context, inputs map[string]any) map[string]any

// Runner evaluates a target against every example of a dataset
type Runner struct {
	Target           Target
	Evaluators       []Evaluator
	MaxConcurrency   int
	ExperimentPrefix string
	Description      string
	Logger           *slog.Logger
	Now              func() time.Time
}

type Result struct {
	Run      Run               `json:"run"`
	Scores   []Score           `json:"scores"`
	Errors   map[string]string `json:"errors,omitempty"`
	Duration time.Duration     `json:"duration"`
}

type Report struct {
	Experiment  string             `json:"experiment"`
	Dataset     string             `json:"dataset"`
	Description string             `json:"description,omitempty"`
	Results     []Result           `json:"results"`
	Summary     map[string]float64 `json:"summary"`
}

// Run evaluates the dataset. Evaluator failures are recorded on the
// affected result; only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, ds *Dataset) (*Report, error) {
	if r.Target == nil {
		return nil, errors.New("runner needs a target")
	}
	if ds == nil || len(ds.Examples) == 0 {
		return nil, errors.New("dataset is empty")
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	limit := r.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	prefix := r.ExperimentPrefix
	if prefix == "" {
		prefix = "experiment"
	}
	report := &Report{
		Experiment:  fmt.Sprintf("%s-%s", prefix, now().UTC().Format("20060102-150405")),
		Dataset:     ds.Name,
		Description: r.Description,
		Results:     make([]Result, len(ds.Examples)),
	}
	logger.Info("evaluation started", "experiment", report.Experiment, "dataset", ds.Name, "examples", len(ds.Examples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, example := range ds.Examples {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = r.evaluateExample(gctx, logger, example, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Summary = summarize(report.Results)
	logger.Info("evaluation finished", "experiment", report.Experiment, "summary", report.Summary)
	return report, nil
}

func (r *Runner) evaluateExample(ctx context.Context, logger *slog.Logger, example Example, now func() time.Time) Result {
	start := now()
	outputs := r.Target(ctx, example.Inputs)
	result := Result{
		Run: Run{
			ExampleID: example.ID,
			Inputs:    example.Inputs,
			Outputs:   outputs,
		},
	}
	result.Duration = now().Sub(start)

	for _, evaluator := range r.Evaluators {
		score, err := evaluator.Evaluate(ctx, result.Run, example)
		if err != nil {
			logger.Warn("evaluator failed", "example", example.ID, "evaluator", evaluator.Key(), "err", err)
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[evaluator.Key()] = err.Error()
			continue
		}
		result.Scores = append(result.Scores, score)
	}
	return result
}

// summarize returns the fraction of positive scores per evaluator key
func summarize(results []Result) map[string]float64 {
	positive := make(map[string]int)
	total := make(map[string]int)
	for _, result := range results {
		for _, score := range result.Scores {
			total[score.Key]++
			if score.Value {
				positive[score.Key]++
			}
		}
	}

	summary := make(map[string]float64, len(total))
	for key, n := range total {
		summary[key] = float64(positive[key]) / float64(n)
	}
	return summary
}

// Keys lists the evaluator keys present in a summary, sorted
func (r *Report) Keys() []string {
	keys := make([]string, 0, len(r.Summary))
	for key := range r.Summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
