package cache

// Keyer derives cache keys. The CLI and the API share one implementation
// so that a result counted by either is found by both.
type Keyer interface {
	// ResultKey names the search result for a graph under the given options.
	ResultKey(graphHash string, opts ResultKeyOpts) string
	// RenderKey names a rendered drawing of a graph.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// ResultKeyOpts lists every option that changes a search result. The clique
// count depends only on the graph, but the step count also depends on the
// set representation and on both orderings.
type ResultKeyOpts struct {
	Sets       string `json:"sets"`
	Reorder    bool   `json:"reorder"`
	Sort       bool   `json:"sort"`
	Symmetrize bool   `json:"symmetrize"`
}

// RenderKeyOpts lists the options that change a rendered drawing.
type RenderKeyOpts struct {
	Format    string `json:"format"`
	Highlight []int  `json:"highlight,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct {
	// Version is mixed into every key so that a release which changes
	// search behaviour does not serve stale step counts.
	Version string
}

// NewDefaultKeyer returns a keyer for the given release version.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{Version: keyVersion}
}

// keyVersion changes whenever cached payloads change shape or meaning.
const keyVersion = "v1"

// ResultKey implements [Keyer].
func (k *DefaultKeyer) ResultKey(graphHash string, opts ResultKeyOpts) string {
	return hashKey("result", k.Version, graphHash, opts)
}

// RenderKey implements [Keyer].
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", k.Version, graphHash, opts)
}
