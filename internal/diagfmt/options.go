// Package diagfmt renders pipeline artifacts for display: token listings,
// AST trees, TAC and assembly listings, optimization stats, trace steps and
// diagnostics. Rendering is a derived view; every formatter is deterministic
// over its structured input.
package diagfmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// Denormalize maps normalized names back to original identifiers in TAC
	// and assembly listings when set.
	Denormalize bool
}
