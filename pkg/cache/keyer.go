package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey keys the layout of the snapshot with the given hash.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every option that changes a computed layout.
type LayoutKeyOpts struct {
	Strategy      string   `json:"strategy"`
	HorizontalGap float64  `json:"hgap"`
	VerticalGap   float64  `json:"vgap"`
	FixedSize     bool     `json:"fixed,omitempty"`
	Centered      bool     `json:"centered,omitempty"`
	Direction     string   `json:"dir,omitempty"`
	Palette       []string `json:"palette,omitempty"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"bg,omitempty"`
	Title      string  `json:"title,omitempty"`
	Selected   string  `json:"selected,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
