package hydrate

// Kind of resolution problem recorded in document diagnostics.
// ENUM(unresolved-reference, cyclic-reference, depth-exceeded, missing-primary-asset)
type DiagnosticKind string

// Record field diagnostic belongs to.
// ENUM(question, explanation)
type Field string
