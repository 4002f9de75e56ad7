package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultTopN       = 20
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Analysis AnalysisConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Schedule ScheduleConfig

	// Warnings holds recovered problems, e.g. a non-integer top_n_groups_to_report.
	Warnings []error
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

type AnalysisConfig struct {
	ResultsDir       string
	IncludeBroken    bool
	TopN             int
	OutputReportFile string
	HistoryDir       string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LLMConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerMinute int
}

type ScheduleConfig struct {
	Cron string
}

// ParseError describes a config value that could not be parsed and was
// replaced by its default.
type ParseError struct {
	Key      string
	Value    string
	Fallback string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: %s=%q is not valid, using %s", e.Key, e.Value, e.Fallback)
}

// fileConfig mirrors config.yaml. Values the user may get wrong are kept as raw
// nodes so a bad value, scalar or not, degrades to the default instead of
// failing the load.
type fileConfig struct {
	AllureResultsDirectory  string    `yaml:"allure_results_directory"`
	IncludeBroken           yaml.Node `yaml:"include_broken"`
	TopNGroupsToReport      yaml.Node `yaml:"top_n_groups_to_report"`
	OutputReportFile        string    `yaml:"output_report_file"`
	ReportsHistoryDirectory string    `yaml:"reports_history_directory"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	App struct {
		Environment string `yaml:"environment"`
		LogLevel    string `yaml:"log_level"`
		LogFormat   string `yaml:"log_format"`
		Version     string `yaml:"version"`
	} `yaml:"app"`
	Redis struct {
		Addr     string    `yaml:"addr"`
		Password string    `yaml:"password"`
		DB       yaml.Node `yaml:"db"`
	} `yaml:"redis"`
	LLM struct {
		BaseURL           string    `yaml:"base_url"`
		APIKey            string    `yaml:"api_key"`
		Model             string    `yaml:"model"`
		RequestsPerMinute yaml.Node `yaml:"requests_per_minute"`
	} `yaml:"llm"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "8000"},
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "text",
			Version:     "1.0.0",
		},
		Analysis: AnalysisConfig{
			ResultsDir:       "./allure-results",
			IncludeBroken:    true,
			TopN:             DefaultTopN,
			OutputReportFile: "failure_analysis_report.html",
			HistoryDir:       "reports_history",
		},
		LLM: LLMConfig{
			BaseURL:           "https://api.openai.com/v1",
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 30,
		},
	}
}

// Load reads defaults, then path (config.yaml when empty; only an explicit
// path must exist), then .env, then the process environment.
func Load(path string) (*Config, error) {
	log := logging.New("config")

	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.applyYAML(b); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		log.Debug("no config file found, using defaults", "path", path)
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()

	for _, w := range cfg.Warnings {
		log.Warn(w.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(b []byte) error {
	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return err
	}

	setString(&c.Analysis.ResultsDir, f.AllureResultsDirectory)
	setString(&c.Analysis.OutputReportFile, f.OutputReportFile)
	setString(&c.Analysis.HistoryDir, f.ReportsHistoryDirectory)
	if raw, ok := c.scalar("include_broken", &f.IncludeBroken, "true"); ok {
		c.Analysis.IncludeBroken = ParseBool(raw)
	}
	c.Analysis.TopN = c.nodeInt("top_n_groups_to_report", &f.TopNGroupsToReport, c.Analysis.TopN, DefaultTopN)

	setString(&c.Server.Port, f.Server.Port)
	setString(&c.App.Environment, f.App.Environment)
	setString(&c.App.LogLevel, f.App.LogLevel)
	setString(&c.App.LogFormat, f.App.LogFormat)
	setString(&c.App.Version, f.App.Version)

	setString(&c.Redis.Addr, f.Redis.Addr)
	setString(&c.Redis.Password, f.Redis.Password)
	c.Redis.DB = c.nodeInt("redis.db", &f.Redis.DB, c.Redis.DB, 0)

	setString(&c.LLM.BaseURL, f.LLM.BaseURL)
	setString(&c.LLM.APIKey, f.LLM.APIKey)
	setString(&c.LLM.Model, f.LLM.Model)
	c.LLM.RequestsPerMinute = c.nodeInt("llm.requests_per_minute", &f.LLM.RequestsPerMinute, c.LLM.RequestsPerMinute, 30)

	setString(&c.Schedule.Cron, f.Schedule.Cron)
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Analysis.ResultsDir, os.Getenv("ALLURE_RESULTS_DIR"))
	setString(&c.Analysis.OutputReportFile, os.Getenv("OUTPUT_REPORT_FILE"))
	setString(&c.Analysis.HistoryDir, os.Getenv("REPORTS_HISTORY_DIR"))
	if v := os.Getenv("INCLUDE_BROKEN"); v != "" {
		c.Analysis.IncludeBroken = ParseBool(v)
	}
	if v := os.Getenv("TOP_N_GROUPS"); v != "" {
		c.Analysis.TopN = c.parseInt("TOP_N_GROUPS", v, DefaultTopN)
	}

	setString(&c.Server.Port, os.Getenv("PORT"))
	setString(&c.App.Environment, os.Getenv("APP_ENV"))
	setString(&c.App.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.App.LogFormat, os.Getenv("LOG_FORMAT"))
	setString(&c.App.Version, os.Getenv("APP_VERSION"))

	setString(&c.Redis.Addr, os.Getenv("REDIS_ADDR"))
	setString(&c.Redis.Password, os.Getenv("REDIS_PASSWORD"))
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.Redis.DB = c.parseInt("REDIS_DB", v, 0)
	}

	setString(&c.LLM.BaseURL, os.Getenv("LLM_BASE_URL"))
	setString(&c.LLM.APIKey, os.Getenv("LLM_API_KEY"))
	setString(&c.LLM.Model, os.Getenv("LLM_MODEL"))
	if v := os.Getenv("LLM_RPM"); v != "" {
		c.LLM.RequestsPerMinute = c.parseInt("LLM_RPM", v, 30)
	}

	setString(&c.Schedule.Cron, os.Getenv("ANALYSIS_CRON"))
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Analysis.HistoryDir == "" {
		return fmt.Errorf("reports_history_directory is required")
	}
	return nil
}

// scalar returns the text of a scalar node. A missing or null node is absent;
// a sequence or map records a *ParseError naming fallback and reports false.
func (c *Config) scalar(key string, n *yaml.Node, fallback string) (string, bool) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if absent(n) {
		return "", false
	}
	if n.Kind != yaml.ScalarNode {
		c.Warnings = append(c.Warnings, &ParseError{Key: key, Value: nodeKind(n), Fallback: fallback})
		return "", false
	}
	return n.Value, true
}

// nodeInt keeps current when the key is absent and uses fallback when the
// value is not an integer.
func (c *Config) nodeInt(key string, n *yaml.Node, current, fallback int) int {
	if absent(n) {
		return current
	}
	raw, ok := c.scalar(key, n, strconv.Itoa(fallback))
	if !ok {
		return fallback
	}
	return c.parseInt(key, raw, fallback)
}

func absent(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "<sequence>"
	case yaml.MappingNode:
		return "<map>"
	}
	return "<" + n.Tag + ">"
}

func (c *Config) parseInt(key, raw string, fallback int) int {
	n, err := ParseInt(key, raw, fallback)
	if err != nil {
		c.Warnings = append(c.Warnings, err)
	}
	return n
}

// ParseInt parses raw as an integer; on failure it returns fallback and a *ParseError.
func ParseInt(key, raw string, fallback int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback, &ParseError{Key: key, Value: raw, Fallback: strconv.Itoa(fallback)}
	}
	return n, nil
}

// ParseBool treats false/0/no/off and empty as false, anything else as true.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "false", "0", "no", "off", "":
		return false
	}
	return true
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
