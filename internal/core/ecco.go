package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agenthands/ecco/internal/config"
	"github.com/agenthands/ecco/internal/core/cluster"
	"github.com/agenthands/ecco/internal/core/compare"
	"github.com/agenthands/ecco/internal/core/diff"
	"github.com/agenthands/ecco/internal/core/loader"
	"github.com/agenthands/ecco/internal/core/model"
	"github.com/agenthands/ecco/internal/core/report"
	"github.com/agenthands/ecco/internal/metrics"
	"github.com/agenthands/ecco/internal/reasoner"
	"github.com/agenthands/ecco/internal/store"
)

var ErrNoStore = errors.New("run history is disabled")

// Ecco ties the diff and comparison pipelines to a reasoner, metrics and run history.
type Ecco struct {
	Config     *config.Config
	Reasoners  reasoner.Factory
	Classifier *diff.Classifier
	// Store may be nil, in which case runs are not recorded.
	Store   store.Store
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func NewEcco(cfg *config.Config, reasoners reasoner.Factory, st store.Store, m *metrics.Metrics, logger *slog.Logger) *Ecco {
	if logger == nil {
		logger = slog.Default()
	}
	classifier := diff.NewClassifier(logger)
	classifier.AssumeEntailedOnError = cfg.Reasoner.AssumeEntailedOnError
	return &Ecco{
		Config:     cfg,
		Reasoners:  reasoners,
		Classifier: classifier,
		Store:      st,
		Metrics:    m,
		Logger:     logger,
	}
}

// Oracles loads a reasoner per ontology and counts its entailment checks.
func (e *Ecco) Oracles() diff.OracleLoader {
	return diff.LoaderFunc(func(ctx context.Context, o *model.Ontology) (diff.LoadedOracle, error) {
		start := time.Now()
		r, err := e.Reasoners.Load(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("failed to load reasoner for %s: %w", o.ID, err)
		}
		e.Metrics.ObserveStage("load", time.Since(start))
		return &countingOracle{Reasoner: r, metrics: e.Metrics}, nil
	})
}

type countingOracle struct {
	reasoner.Reasoner
	metrics *metrics.Metrics
}

func (c *countingOracle) Entails(ctx context.Context, ax model.Axiom) (bool, error) {
	ok, err := c.Reasoner.Entails(ctx, ax)
	c.metrics.CountOracleCall(ok, err)
	return ok, err
}

// Diff computes the two-level diff of two ontology versions.
func (e *Ecco) Diff(ctx context.Context, older, newer *model.Ontology) (*diff.Result, error) {
	res, err := e.Classifier.Compare(ctx, older, newer, e.Oracles())
	if err != nil {
		return nil, err
	}
	e.Metrics.ObserveStage("structural", res.Structural.Elapsed)
	if res.Logical != nil {
		e.Metrics.ObserveStage("logical", res.Logical.Elapsed)
	}
	e.Logger.Info("diff computed",
		"older", older.ID,
		"newer", newer.ID,
		"kind", res.ChangeSet.Kind().String(),
		"additions", res.ChangeSet.Additions().Len(),
		"removals", res.ChangeSet.Removals().Len(),
		"empty", res.ChangeSet.IsEmpty())
	return res, nil
}

// DiffFiles loads both documents and diffs them.
func (e *Ecco) DiffFiles(ctx context.Context, olderPath, newerPath string) (*diff.Result, *model.Ontology, *model.Ontology, error) {
	older, err := loader.LoadOntology(olderPath)
	if err != nil {
		return nil, nil, nil, err
	}
	newer, err := loader.LoadOntology(newerPath)
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := e.Diff(ctx, older, newer)
	if err != nil {
		return nil, nil, nil, err
	}
	return res, older, newer, nil
}

// Report renders a diff result with the given naming scheme, or the configured one when empty.
func (e *Ecco) Report(res *diff.Result, naming string, older, newer *model.Ontology) (*report.Report, error) {
	if naming == "" {
		naming = e.Config.Report.Naming
	}
	n, err := report.NewNaming(naming, older, newer)
	if err != nil {
		return nil, err
	}
	return report.NewSession().Build(res, n), nil
}

type CompareRequest struct {
	Operation string
	// Ontology names the row; derived from the inputs when empty.
	Ontology string
	Inputs   []compare.Input
}

type CompareResult struct {
	Run    *store.Run
	Result *cluster.Result
	Row    report.ClusterRow
}

// Compare clusters the outputs of several engines for one operation and records the run.
func (e *Ecco) Compare(ctx context.Context, req CompareRequest) (*CompareResult, error) {
	op, err := compare.ParseOperation(req.Operation, e.Classifier, e.Oracles())
	if err != nil {
		return nil, err
	}
	mode, err := cluster.ParseMode(e.Config.Compare.Mode)
	if err != nil {
		return nil, err
	}

	runner := compare.NewRunner(mode, e.Config.Compare.Concurrency, e.Logger, e.Metrics)
	start := time.Now()
	res, err := runner.Run(ctx, op, req.Inputs)
	if err != nil {
		return nil, err
	}
	e.Metrics.ObserveStage("compare", time.Since(start))

	ontology := req.Ontology
	if ontology == "" {
		ontology = compare.OntologyName(req.Inputs)
	}

	columns := e.columns(req.Inputs)
	run := store.NewRun(ontology, op.Name(), mode, res, columns)
	if e.Store != nil {
		if err := e.Store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	return &CompareResult{
		Run:    run,
		Result: res,
		Row:    report.NewClusterRow(ontology, op.Name(), res, columns),
	}, nil
}

// columns are the configured sources followed by any input not among them.
func (e *Ecco) columns(inputs []compare.Input) []string {
	out := append([]string(nil), e.Config.Compare.Sources...)
	known := make(map[string]bool, len(out))
	for _, s := range out {
		known[s] = true
	}
	for _, in := range inputs {
		if !known[in.ID] {
			known[in.ID] = true
			out = append(out, in.ID)
		}
	}
	return out
}

// Runs lists recorded comparisons, newest first.
func (e *Ecco) Runs(ctx context.Context, ontology string, limit int) ([]store.Run, error) {
	if e.Store == nil {
		return nil, ErrNoStore
	}
	return e.Store.ListRuns(ctx, ontology, limit)
}

func (e *Ecco) Close(ctx context.Context) error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close(ctx)
}
