package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Grid     bool    `json:"grid,omitempty"`
	Margin   int     `json:"margin,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered artifact of the document with
	// the given hash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
	// DocumentKey identifies a fetched copy of a stored document.
	DocumentKey(backend, name string) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(backend, name string) string {
	return "document:" + backend + ":" + name
}
