package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, carried on the context logger through a call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRunID identifies one RunSync invocation
	FieldRunID = "run_id"

	// FieldUserID is the user whose sync is running
	FieldUserID = "user_id"

	// FieldSource is the provider key (arbeitnow, remotive, jsearch)
	FieldSource = "source"

	// FieldKeyword is the search keyword sent to a provider
	FieldKeyword = "keyword"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Metric fields, attached per log line through the Entry API.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldStatus     = "status"
	FieldAttempt    = "attempt"
)
