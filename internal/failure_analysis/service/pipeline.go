package service

import (
	"context"
	"time"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/config"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/fingerprint"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/grouping"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/ingest/allure"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/ranking"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/report"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

type Options struct {
	ResultsDir       string
	IncludeBroken    bool
	TopN             int
	HistoryDir       string
	OutputReportFile string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ResultsDir:       cfg.Analysis.ResultsDir,
		IncludeBroken:    cfg.Analysis.IncludeBroken,
		TopN:             cfg.Analysis.TopN,
		HistoryDir:       cfg.Analysis.HistoryDir,
		OutputReportFile: cfg.Analysis.OutputReportFile,
	}
}

// Store returns the artifact store the options point at.
func (o Options) Store() *report.Store {
	return report.NewStore(o.HistoryDir, report.ArtifactName(o.OutputReportFile))
}

type RunResult struct {
	Report *domain.Report `json:"report,omitempty"`
	Path   string         `json:"path,omitempty"`
}

// Analyze runs the in-memory pipeline: fingerprint, group, rank, window, build.
func Analyze(records []domain.FailureRecord, topN int, now time.Time) *domain.Report {
	groups := grouping.Group(records, fingerprint.New(nil))
	total := grouping.Total(groups)
	ranked := ranking.Window(ranking.Rank(groups), topN)
	return report.Build(ranked, total, now)
}

// FilterStatus drops broken records unless includeBroken is set.
func FilterStatus(records []domain.FailureRecord, includeBroken bool) []domain.FailureRecord {
	if includeBroken {
		return records
	}
	out := make([]domain.FailureRecord, 0, len(records))
	for _, r := range records {
		if domain.NormalizeStatus(r.Status) == domain.StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// Run collects results, analyzes them and persists the artifact. With no
// failures left after filtering it returns an empty result and writes nothing.
// A persistence failure still returns the computed report.
func Run(ctx context.Context, opts Options) (*RunResult, error) {
	log := logging.FromContext(ctx, "analysis")

	all, err := allure.Collect(ctx, opts.ResultsDir)
	if err != nil {
		return nil, err
	}
	log.Infof("run", "found %d individual failure steps (failed + broken)", len(all))

	failures := FilterStatus(all, opts.IncludeBroken)
	if !opts.IncludeBroken {
		log.Infof("run", "excluding broken tests, kept %d failed steps", len(failures))
	}
	if len(failures) == 0 {
		log.Info("run", "no failures to analyze after filtering")
		return &RunResult{}, nil
	}

	if opts.TopN > 0 {
		log.Infof("run", "generating report for the top %d failure groups", opts.TopN)
	} else {
		log.Info("run", "generating report for all failure groups")
	}

	now := time.Now()
	rep := Analyze(failures, opts.TopN, now)

	path, err := opts.Store().Save(rep, now)
	if err != nil {
		log.Error("run", err)
		return &RunResult{Report: rep}, err
	}
	return &RunResult{Report: rep, Path: path}, nil
}
