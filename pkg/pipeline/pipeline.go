// Package pipeline provides the compile → layout → render pipeline for
// exprtree.
//
// The CLI and the HTTP API both go through a [Runner], so caching, defaults
// and validation behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Compile: parse, annotate, and evaluate the expression
//  2. Layout: place the tree's nodes in a width × height frame
//  3. Render: produce output in the requested formats (SVG, PNG, PDF, DOT,
//     JSON, YAML, text)
//
// Each stage can be run on its own or as part of [Runner.Execute]. Layouts
// and artifacts are cached; compiling is cheap and always runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Expression: "(2+3)*4",
//	    Formats:    []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exprtree/pkg/cache"
	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultCacheTTL is how long layouts and artifacts stay cached.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.Default

// Visualization types.
const (
	// VizCanvas draws the tree at the coordinates computed by the layout
	// engine.
	VizCanvas = "canvas"
	// VizNodelink lets Graphviz place the nodes.
	VizNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizCanvas

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "txt"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON, FormatYAML, FormatText}

// VizTypes lists every supported visualization type.
var VizTypes = []string{VizCanvas, VizNodelink}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compile options
	Expression string `json:"expression"`
	Strict     bool   `json:"strict,omitempty"`

	// Layout options
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	VizType  string   `json:"viz_type,omitempty"`
	Style    string   `json:"style,omitempty"`
	Result   bool     `json:"result,omitempty"`   // caption the drawing with "= result"
	Detailed bool     `json:"detailed,omitempty"` // show id and depth in nodelink labels
	Scale    float64  `json:"scale,omitempty"`
	// TextCols and TextRows size the txt canvas. Zero derives them from the
	// tree.
	TextCols int `json:"text_cols,omitempty"`
	TextRows int `json:"text_rows,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the compiled expression.
	Tree *expr.Tree

	// TreeHash is the content hash of the serialized tree.
	TreeHash string

	// Layout is the serializable layout, including the result and any
	// diagnostics.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	MaxDepth    int
	CompileTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompile(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompile checks the expression.
func (o *Options) ValidateForCompile() error {
	o.setLogger()
	return errs.ValidateExpression(o.Expression)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.setLogger()
}

// ValidateForLayout sets layout defaults and checks the frame.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return errs.ValidateDimensions(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender sets layout and render defaults and checks them.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := errs.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}
	if !slices.Contains(VizTypes, o.VizType) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid viz_type %q (available: %s)", o.VizType, strings.Join(VizTypes, ", "))
	}
	return errs.ValidateStyle(o.Style, styles.Names())
}

// IsNodelink returns true if Graphviz places the nodes.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizNodelink
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Result: o.Result}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Style = o.Style
		k.Detailed = o.Detailed
		if o.IsNodelink() {
			k.Style = VizNodelink
		}
	case FormatDOT:
		k.Detailed = o.Detailed
	case FormatText:
		k.Cols, k.Rows = o.TextCols, o.TextRows
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// textSize returns the txt canvas dimensions for a layout of t.
func (o *Options) textSize(t *expr.Tree) (cols, rows int) {
	cols, rows = o.TextCols, o.TextRows
	if cols <= 0 {
		cols = (t.Count() + 1) * 4
	}
	if rows <= 0 {
		rows = (t.MaxDepth() + 2) * 2
	}
	return cols, rows
}
