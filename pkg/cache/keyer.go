package cache

// Keyer generates cache keys.
type Keyer interface {
	// SceneKey is the key of the scene plotted from a document.
	SceneKey(docHash string, opts SceneKeyOpts) string
	// ArtifactKey is the key of a scene rendered to one output format.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts are the inputs besides the document that change a scene.
type SceneKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	DPI    float64 `json:"dpi"`
	// PlotHash is the hash of the encoded plot options.
	PlotHash string `json:"plot_hash"`
}

// ArtifactKeyOpts are the inputs besides the scene that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Title      string  `json:"title,omitempty"`
	Background string  `json:"background,omitempty"`
	EmbedFonts bool    `json:"embed_fonts,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SceneKey returns "scene:<hash>".
func (DefaultKeyer) SceneKey(docHash string, opts SceneKeyOpts) string {
	return hashKey("scene", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
