package cache

// Key type names, used as namespaces and as the keyType of cache hooks.
const (
	KeyTypeCompile  = "compile"
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// CompileKey identifies the compiled tree of an expression.
	CompileKey(expression string, strict bool) string
	// LayoutKey identifies a layout of the tree with the given hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs of a layout besides the tree.
type LayoutKeyOpts struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ArtifactKeyOpts are the inputs of a render besides the layout.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style,omitempty"`
	Result   bool    `json:"result,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Cols     int     `json:"cols,omitempty"`
	Rows     int     `json:"rows,omitempty"`
}

// DefaultKeyer hashes stage inputs into "<type>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CompileKey(expression string, strict bool) string {
	return hashKey(KeyTypeCompile, expression, strict)
}

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}
