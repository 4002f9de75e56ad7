// Package allure reads Allure *-result.json files into failure records.
package allure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

const (
	resultSuffix = "-result.json"
	parseWorkers = 8
)

// Collect parses every result file in dir. Records come back in file-name
// order regardless of the order in which files finish parsing.
func Collect(ctx context.Context, dir string) ([]domain.FailureRecord, error) {
	log := logging.FromContext(ctx, "allure")

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("allure results dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("allure results dir %s is not a directory", dir)
	}

	files, err := resultFiles(dir)
	if err != nil {
		return nil, err
	}

	perFile := make([][]domain.FailureRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := os.ReadFile(path)
			if err != nil {
				log.Warnf("collect", "skipping unreadable result %s: %v", path, err)
				return nil
			}
			recs, err := ParseResult(b)
			if err != nil {
				log.Warnf("collect", "skipping %s: %v", path, err)
				return nil
			}
			perFile[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.FailureRecord
	for _, recs := range perFile {
		out = append(out, recs...)
	}
	log.Infof("collect", "scanned %d result files, found %d failure records", len(files), len(out))
	return out, nil
}

func resultFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read allure results dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), resultSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ParseResult turns one Allure test result into zero or more failure records:
// one per failing leaf step with a message, or a single test-level record.
func ParseResult(data []byte) ([]domain.FailureRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, fmt.Errorf("result is not a json object")
	}

	status := res.Get("status").String()
	if !domain.IsFailure(status) {
		return nil, nil
	}

	base := domain.FailureRecord{
		Name:     res.Get("name").String(),
		FullName: res.Get("fullName").String(),
		Message:  res.Get("statusDetails.message").String(),
		Trace:    res.Get("statusDetails.trace").String(),
		Status:   status,
		Labels:   parseLabels(res.Get("labels")),
	}

	var steps []gjson.Result
	collectFailingLeaves(res.Get("steps"), &steps)

	if len(steps) == 0 {
		return []domain.FailureRecord{base}, nil
	}

	out := make([]domain.FailureRecord, 0, len(steps))
	for _, st := range steps {
		rec := base
		rec.Status = st.Get("status").String()
		rec.Message = st.Get("statusDetails.message").String()
		if tr := st.Get("statusDetails.trace").String(); tr != "" {
			rec.Trace = tr
		}
		out = append(out, rec)
	}
	return out, nil
}

// collectFailingLeaves appends failing steps that carry a message and have no
// failing descendants.
func collectFailingLeaves(steps gjson.Result, out *[]gjson.Result) bool {
	found := false
	steps.ForEach(func(_, st gjson.Result) bool {
		if !domain.IsFailure(st.Get("status").String()) {
			return true
		}
		if collectFailingLeaves(st.Get("steps"), out) {
			found = true
			return true
		}
		if st.Get("statusDetails.message").String() != "" {
			*out = append(*out, st)
			found = true
		}
		return true
	})
	return found
}

func parseLabels(v gjson.Result) []domain.Label {
	var labels []domain.Label
	v.ForEach(func(_, l gjson.Result) bool {
		name := l.Get("name").String()
		if name == "" || !l.Get("value").Exists() {
			return true
		}
		labels = append(labels, domain.Label{Name: name, Value: l.Get("value").String()})
		return true
	})
	return labels
}
