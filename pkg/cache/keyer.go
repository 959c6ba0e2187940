package cache

// LayoutKeyOpts are the inputs that change computed positions.
type LayoutKeyOpts struct {
	Engine   string   `json:"engine"`
	FontSize float64  `json:"font_size"`
	MetaKeys []string `json:"meta_keys"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Engine   string   `json:"engine"`
	FontSize float64  `json:"font_size"`
	MetaKeys []string `json:"meta_keys"`
	Palette  []string `json:"palette,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Strict   bool     `json:"strict,omitempty"`
	Title    string   `json:"title,omitempty"`
}

// Keyer derives cache keys. topologyHash identifies the input document
// (see Hash).
type Keyer interface {
	LayoutKey(topologyHash string, opts LayoutKeyOpts) string
	ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the topology hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() DefaultKeyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(topologyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", topologyHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(topologyHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, topologyHash, opts)
}
