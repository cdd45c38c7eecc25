package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Reactivity Errors (R001-R099)
	// ============================================

	"R001": {
		Category:   CategoryReactivity,
		Message:    "Write to readonly target rejected",
		Suggestion: "Mutate the target through its mutable wrapper instead of the readonly view",
		DocURL:     "https://ripple.dev/docs/errors/R001",
	},
	"R002": {
		Category:   CategoryReactivity,
		Message:    "Reentrant effect run suppressed",
		Suggestion: "An effect that writes a key it also reads is skipped while it is already running",
		DocURL:     "https://ripple.dev/docs/errors/R002",
	},
	"R003": {
		Category:   CategoryReactivity,
		Message:    "Iteration over a weak collection",
		Suggestion: "Weak maps and sets only support get, has, set/add and delete",
		DocURL:     "https://ripple.dev/docs/errors/R003",
	},
	"R004": {
		Category:   CategoryReactivity,
		Message:    "Maximum recursive job runs exceeded",
		Suggestion: "A job keeps re-queuing itself during flush; check for an effect that mutates its own dependencies",
		DocURL:     "https://ripple.dev/docs/errors/R004",
	},
	"R005": {
		Category:   CategoryReactivity,
		Message:    "Invalid weak collection key",
		Suggestion: "Weak collection keys must be pointers",
		DocURL:     "https://ripple.dev/docs/errors/R005",
	},
	"R006": {
		Category:   CategoryReactivity,
		Message:    "Malformed record literal",
		Suggestion: "Pass alternating string keys and values to NewRecord",
		DocURL:     "https://ripple.dev/docs/errors/R006",
	},

	// ============================================
	// Reconciliation Errors (R101-R199)
	// ============================================

	"R101": {
		Category:   CategoryReconcile,
		Message:    "Duplicate key in keyed sequence",
		Suggestion: "Assign a unique, stable key to every item in a keyed sequence",
		DocURL:     "https://ripple.dev/docs/errors/R101",
	},
	"R102": {
		Category:   CategoryReconcile,
		Message:    "Missing reconciliation callback",
		Suggestion: "Provide Patch, Move and Unmount callbacks",
		DocURL:     "https://ripple.dev/docs/errors/R102",
	},
	"R103": {
		Category: CategoryReconcile,
		Message:  "Operation log does not apply to sequence",
		DocURL:   "https://ripple.dev/docs/errors/R103",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Configuration file not readable",
		Suggestion: "Check the --config path and file permissions",
		DocURL:     "https://ripple.dev/docs/errors/C001",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "Configuration file is malformed",
		Suggestion: "Validate the file as JSON or YAML",
		DocURL:     "https://ripple.dev/docs/errors/C002",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://ripple.dev/docs/errors/C003",
	},

	// ============================================
	// CLI Errors (X001-X099)
	// ============================================

	"X001": {
		Category: CategoryCLI,
		Message:  "Sequence file not readable",
		DocURL:   "https://ripple.dev/docs/errors/X001",
	},
	"X002": {
		Category:   CategoryCLI,
		Message:    "Sequence file is malformed",
		Suggestion: `Provide a list of items such as [{"key": "a"}, {"key": "b"}]`,
		DocURL:     "https://ripple.dev/docs/errors/X002",
	},
	"X003": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		DocURL:   "https://ripple.dev/docs/errors/X003",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns the number of registered error codes.
func Codes() int {
	return len(registry)
}
