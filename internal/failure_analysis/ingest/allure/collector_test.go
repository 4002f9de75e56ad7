package allure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

const failedWithSteps = `{
  "name": "checkout works",
  "fullName": "e2e.checkout works",
  "status": "failed",
  "statusDetails": {"message": "outer", "trace": "at checkout.spec.ts:42:10"},
  "labels": [{"name": "epic", "value": "Payments"}, {"name": "feature", "value": "Cart"}, {"name": "broken"}],
  "steps": [
    {"name": "open", "status": "passed"},
    {"name": "pay", "status": "failed", "statusDetails": {"message": "pay wrapper"},
     "steps": [
       {"name": "click", "status": "broken", "statusDetails": {"message": "waiting for selector ` + "`#pay`" + ` failed"}},
       {"name": "confirm", "status": "failed", "statusDetails": {"message": "confirm failed", "trace": "at confirm.spec.ts:1:2"}}
     ]}
  ]
}`

const brokenNoSteps = `{
  "name": "login",
  "status": "BROKEN",
  "statusDetails": {"message": "Unhandled error: socket reset"}
}`

const passed = `{"name": "ok", "status": "passed"}`

func TestParseResultFailingLeaves(t *testing.T) {
	recs, err := ParseResult([]byte(failedWithSteps))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "checkout works", recs[0].Name)
	assert.Equal(t, "e2e.checkout works", recs[0].FullName)
	assert.Equal(t, "broken", recs[0].Status)
	assert.Equal(t, "waiting for selector `#pay` failed", recs[0].Message)
	assert.Equal(t, "at checkout.spec.ts:42:10", recs[0].Trace, "falls back to the test trace")
	assert.Equal(t, []domain.Label{{Name: "epic", Value: "Payments"}, {Name: "feature", Value: "Cart"}}, recs[0].Labels)

	assert.Equal(t, "confirm failed", recs[1].Message)
	assert.Equal(t, "at confirm.spec.ts:1:2", recs[1].Trace)
}

func TestParseResultTestLevel(t *testing.T) {
	recs, err := ParseResult([]byte(brokenNoSteps))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "login", recs[0].Name)
	assert.Equal(t, "BROKEN", recs[0].Status)
	assert.Equal(t, "Unhandled error: socket reset", recs[0].Message)
	assert.Empty(t, recs[0].Trace)
}

func TestParseResultSkipsPassedAndRejectsGarbage(t *testing.T) {
	recs, err := ParseResult([]byte(passed))
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = ParseResult([]byte("{not json"))
	assert.Error(t, err)

	_, err = ParseResult([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b-result.json", brokenNoSteps)
	write("a-result.json", failedWithSteps)
	write("c-result.json", passed)
	write("d-result.json", "{garbage")
	write("a-container.json", failedWithSteps)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested-result.json"), 0o755))

	recs, err := Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "waiting for selector `#pay` failed", recs[0].Message)
	assert.Equal(t, "confirm failed", recs[1].Message)
	assert.Equal(t, "login", recs[2].Name)
}

func TestCollectMissingDir(t *testing.T) {
	_, err := Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCollectEmptyDir(t *testing.T) {
	recs, err := Collect(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
