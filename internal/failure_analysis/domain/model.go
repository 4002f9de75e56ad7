package domain

import "time"

type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FailureRecord is one observed test failure. Absent fields are empty strings.
type FailureRecord struct {
	Name     string  `json:"name"`
	FullName string  `json:"fullName,omitempty"`
	Message  string  `json:"message,omitempty"`
	Trace    string  `json:"trace,omitempty"`
	Status   string  `json:"status"`
	Labels   []Label `json:"labels,omitempty"`
}

// LabelValues returns the values of every label called name, in label order.
func (r FailureRecord) LabelValues(name string) []string {
	var out []string
	for _, l := range r.Labels {
		if l.Name == name && l.Value != "" {
			out = append(out, l.Value)
		}
	}
	return out
}

// Fingerprint is the composite classification key of a failure.
type Fingerprint struct {
	MessageKey      string `json:"message_key"`
	CodeLocationKey string `json:"code_location_key"`
}

func (f Fingerprint) String() string {
	return f.MessageKey + "|" + f.CodeLocationKey
}

// FailureGroup is built by the grouping engine; Records keep ingestion order.
type FailureGroup struct {
	Fingerprint Fingerprint
	Records     []FailureRecord
}

func (g FailureGroup) Size() int { return len(g.Records) }

type Report struct {
	Metadata Metadata       `json:"metadata"`
	Groups   []GroupSummary `json:"groups"`
}

type Metadata struct {
	GenerationDate time.Time `json:"generation_date"`
	TotalFailures  int       `json:"total_failures"`
	UniqueGroups   int       `json:"unique_groups"`
}

type GroupSummary struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	FailureCount     int            `json:"failure_count"`
	Percentage       float64        `json:"percentage"`
	StatusCounts     map[string]int `json:"status_counts"`
	FingerprintWhat  string         `json:"fingerprint_what"`
	FingerprintWhere string         `json:"fingerprint_where"`
	Epics            []string       `json:"epics"`
	Features         []string       `json:"features"`
	Example          Example        `json:"example"`
}

type Example struct {
	TestName string `json:"test_name"`
	Message  string `json:"message"`
	Trace    string `json:"trace"`
}

// Group returns the summary with the given rank id.
func (r *Report) Group(id int) (GroupSummary, bool) {
	for _, g := range r.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return GroupSummary{}, false
}
