package patterns

// Residual noise cleanup, applied cumulatively in order.
var genericRules = []Rule{
	MustRule("uuid",
		`(?i)[a-f0-9]{8}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{12}`,
		"<UUID>"),
	MustRule("long_number",
		`\b\d{5,}\b`,
		"<LONG_NUM>"),
	MustRule("status_code",
		`status of \d{3}`,
		"status of <STATUS_CODE>"),
}
