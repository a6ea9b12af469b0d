package costumy

import "errors"

// Sentinel errors for the pattern pipeline. Call sites wrap these with
// fmt.Errorf("...: %w", err) to add panel names, edge indices or attempt
// counts; callers match with errors.Is.
var (
	// ErrMalformedGeometry indicates geometry that cannot form a panel,
	// such as a cubic Bezier segment reaching panel construction or an
	// unsupported path command.
	ErrMalformedGeometry = errors.New("costumy: malformed geometry")

	// ErrMissingResource indicates a referenced definition or data file
	// that does not exist.
	ErrMissingResource = errors.New("costumy: missing resource")

	// ErrConfigurationMismatch indicates a seam whose two sides resolve
	// to a different number of edges.
	ErrConfigurationMismatch = errors.New("costumy: configuration mismatch")

	// ErrExternalProcess indicates an external collaborator returned
	// empty or unusable output for a single invocation.
	ErrExternalProcess = errors.New("costumy: external process failure")

	// ErrRetryBudget indicates the triangulation retry budget was
	// exhausted without a successful attempt.
	ErrRetryBudget = errors.New("costumy: retry budget exceeded")

	// ErrSerialization indicates malformed interchange input or output
	// that cannot be produced.
	ErrSerialization = errors.New("costumy: serialization error")
)
