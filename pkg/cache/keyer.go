package cache

// Keyer generates cache keys for each cached value kind.
type Keyer interface {
	// SpecKey returns the key of a computed specification.
	SpecKey(params, constants any) string

	// ArtifactKey returns the key of a rendered artifact derived from the
	// spec with the given hash.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Kind   string `json:"kind"` // "wireframe" or "topology"
	View   string `json:"view,omitempty"`
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Flip   bool   `json:"flip,omitempty"`
	Room   bool   `json:"room,omitempty"`
	Labels bool   `json:"labels,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SpecKey hashes the parameters together with the constants they were
// computed under.
func (DefaultKeyer) SpecKey(params, constants any) string {
	return hashKey("spec", params, constants)
}

// ArtifactKey hashes the spec hash together with the render options.
func (DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts)
}
