// Package errors provides structured, actionable error values for ripple.
//
// Every error carries a stable code that maps to a registered template:
//   - a short message describing the failure
//   - a longer explanation
//   - a documentation URL
//
// # Error Categories
//
//   - reactivity: misuse of the dependency graph, effects, or wrappers
//   - reconcile: precondition violations in keyed reconciliation input
//   - config: invalid or unreadable configuration files
//   - cli: command-line input errors
//
// # Usage
//
//	err := errors.New("R101").
//	    WithDetail(`key "b" appears at positions 1 and 3`).
//	    WithSuggestion("Assign a unique, stable key to every item")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R101: Duplicate key in keyed sequence
//	//
//	//   key "b" appears at positions 1 and 3
//	//
//	//   Hint: Assign a unique, stable key to every item
//	//
//	//   Learn more: https://ripple.dev/docs/errors/R101
package errors
