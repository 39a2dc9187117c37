package testutil

// FixedIDGenerator returns the same resolution ID every time.
//
// This enables deterministic snapshots: the same flags resolved with the same
// FixedIDGenerator produce byte-identical output.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed resolution ID generator.
// If id is empty, Generate returns "test-resolution-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-resolution-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements resolve.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
