package patterns

// Known failure shapes. Order matters: the first match wins.
var specificRules = []Rule{
	MustRule("selector_timeout",
		"(?i)waiting for selector `(.*?)` failed",
		"Timeout for selector: ${1}"),
	MustRule("status_code_assertion",
		`(?is)Custom message:\s*Expected the status code to be (\d+), but found (\d+)`,
		"Assertion: Expected status code ${1} but received ${2}"),
	MustRule("export_in_progress",
		`(?is)Custom message:\s*(export didn't end with status SUCCEEDED, but ended with status IN_PROGRESS)`,
		"Assertion: ${1}"),
	MustRule("toggle_icon_displayed",
		`(?is)Custom message:\s*(expected toggle icon to be not displayed)`,
		"Assertion: ${1}"),
	MustRule("checkbox_not_checked",
		`(?is)Custom message:\s*(checkbox is not checked:.*)`,
		"Assertion: Checkbox not checked"),
	MustRule("navigation_url",
		`(?i)URL: (.*)`,
		"Navigation error on URL: ${1}"),
	MustRule("missing_xray_issue",
		`(?i)Missing test issue id for Xray report`,
		"Config error: Missing Xray issue ID"),
	MustRule("no_entity_found",
		`(?i)NO_ENTITY_FOUND_ERROR`,
		"Backend error: NO_ENTITY_FOUND_ERROR"),
	MustRule("network_resource",
		`(?i)Failed to load resource: (net::\w+)`,
		"Network error: ${1}"),
	// shortens the long CSP console message
	MustRule("csp_inline_handler",
		`(?i)Refused to execute inline event handler because it violates the following Content Security Policy`,
		"CSP Violation: Refused to execute inline script"),
}
