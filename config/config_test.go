package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ALLURE_RESULTS_DIR", "OUTPUT_REPORT_FILE", "REPORTS_HISTORY_DIR", "INCLUDE_BROKEN", "TOP_N_GROUPS",
	"PORT", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "APP_VERSION",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL", "LLM_RPM", "ANALYSIS_CRON",
}

// clearEnv blanks every variable Load reads; empty values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
allure_results_directory: ./results
include_broken: "no"
top_n_groups_to_report: 5
output_report_file: nightly.html
reports_history_directory: history
server:
  port: "9090"
redis:
  addr: localhost:6379
  db: 2
llm:
  model: local-model
  requests_per_minute: 10
schedule:
  cron: "0 0 * * * *"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./results", cfg.Analysis.ResultsDir)
	assert.False(t, cfg.Analysis.IncludeBroken)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, "nightly.html", cfg.Analysis.OutputReportFile)
	assert.Equal(t, "history", cfg.Analysis.HistoryDir)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "local-model", cfg.LLM.Model)
	assert.Equal(t, 10, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, "0 0 * * * *", cfg.Schedule.Cron)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadTopNNotAnInteger(t *testing.T) {
	path := writeConfig(t, "top_n_groups_to_report: lots\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, cfg.Analysis.TopN)

	require.Len(t, cfg.Warnings, 1)
	var perr *ParseError
	require.True(t, errors.As(cfg.Warnings[0], &perr))
	assert.Equal(t, "top_n_groups_to_report", perr.Key)
	assert.Equal(t, "lots", perr.Value)
}

func TestLoadNonScalarValuesFallBack(t *testing.T) {
	cases := []struct {
		name string
		body string
		key  string
	}{
		{"top n sequence", "top_n_groups_to_report: [1, 2]\n", "top_n_groups_to_report"},
		{"top n map", "top_n_groups_to_report: {a: 1}\n", "top_n_groups_to_report"},
		{"include broken sequence", "include_broken: [no]\n", "include_broken"},
		{"redis db map", "redis:\n  db: {x: 1}\n", "redis.db"},
		{"rpm sequence", "llm:\n  requests_per_minute: [60]\n", "llm.requests_per_minute"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			require.NoError(t, err)

			def := Defaults()
			assert.Equal(t, def.Analysis.TopN, cfg.Analysis.TopN)
			assert.Equal(t, def.Analysis.IncludeBroken, cfg.Analysis.IncludeBroken)
			assert.Equal(t, def.Redis.DB, cfg.Redis.DB)
			assert.Equal(t, def.LLM.RequestsPerMinute, cfg.LLM.RequestsPerMinute)

			require.Len(t, cfg.Warnings, 1)
			var perr *ParseError
			require.True(t, errors.As(cfg.Warnings[0], &perr))
			assert.Equal(t, tc.key, perr.Key)
		})
	}
}

func TestLoadNullValuesKeepDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "top_n_groups_to_report:\ninclude_broken: ~\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, cfg.Analysis.TopN)
	assert.True(t, cfg.Analysis.IncludeBroken)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadNegativeTopNIsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "top_n_groups_to_report: -1\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Analysis.TopN)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "top_n_groups_to_report: 5\nserver:\n  port: \"9090\"\n")
	t.Setenv("TOP_N_GROUPS", "0")
	t.Setenv("PORT", "7000")
	t.Setenv("INCLUDE_BROKEN", "off")
	t.Setenv("LLM_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Analysis.TopN)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.False(t, cfg.Analysis.IncludeBroken)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed\n"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, DefaultTopN, cfg.Analysis.TopN)
	assert.True(t, cfg.Analysis.IncludeBroken)
	assert.Equal(t, "reports_history", cfg.Analysis.HistoryDir)
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"false", "FALSE", "0", "no", "off", "", "  "} {
		assert.False(t, ParseBool(v), v)
	}
	for _, v := range []string{"true", "yes", "1", "on", "anything"} {
		assert.True(t, ParseBool(v), v)
	}
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt("k", " 12 ", 20)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = ParseInt("k", "1.5", 20)
	assert.Equal(t, 20, n)
	assert.EqualError(t, err, `config: k="1.5" is not valid, using 20`)
}
