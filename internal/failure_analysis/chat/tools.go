package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/report"
)

const (
	toolListReports    = "list_reports"
	toolReadReport     = "read_report"
	toolReportsInRange = "reports_in_range"
)

// Toolbox exposes the report history to the model. It only reads artifacts.
type Toolbox struct {
	store *report.Store
	now   func() time.Time
}

func NewToolbox(store *report.Store) *Toolbox {
	return &Toolbox{store: store, now: time.Now}
}

func (tb *Toolbox) Definitions() []Tool {
	return []Tool{
		{Type: "function", Function: FunctionSpec{
			Name:        toolListReports,
			Description: "Returns all available report timestamps, newest first.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
		}},
		{Type: "function", Function: FunctionSpec{
			Name:        toolReadReport,
			Description: "Returns the full JSON data of one report given its timestamp.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"timestamp":{"type":"string"}},"required":["timestamp"]}`),
		}},
		{Type: "function", Function: FunctionSpec{
			Name:        toolReportsInRange,
			Description: "Returns report timestamps from the last N days.",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"days_ago":{"type":"integer"}},"required":["days_ago"]}`),
		}},
	}
}

// Call runs a tool and returns its JSON result. Failures are reported to the
// model as {"error": "..."} rather than aborting the conversation.
func (tb *Toolbox) Call(name, arguments string) string {
	switch name {
	case toolListReports:
		ids, err := tb.store.List()
		if err != nil {
			return errorPayload(err.Error())
		}
		return encode(ids)

	case toolReadReport:
		var args struct {
			Timestamp string `json:"timestamp"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return errorPayload(err.Error())
		}
		raw, err := tb.store.LoadRaw(args.Timestamp)
		if err != nil {
			return errorPayload(fmt.Sprintf("Error reading report %q: %v", args.Timestamp, err))
		}
		return string(raw)

	case toolReportsInRange:
		var args struct {
			DaysAgo int `json:"days_ago"`
		}
		if err := decodeArgs(arguments, &args); err != nil {
			return errorPayload(err.Error())
		}
		ids, err := tb.store.Since(args.DaysAgo, tb.now())
		if err != nil {
			return errorPayload(err.Error())
		}
		return encode(ids)
	}
	return errorPayload(fmt.Sprintf("unknown tool %q", name))
}

func decodeArgs(arguments string, v any) error {
	if arguments == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return errorPayload(err.Error())
	}
	return string(b)
}

func errorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
