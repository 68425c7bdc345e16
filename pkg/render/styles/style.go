// Package styles defines the visual appearance of canvas-rendered trees.
//
// A [Style] writes SVG fragments for each element; the sink decides where
// they go. Two styles ship: [Simple] (black on white) and [Blueprint] (white
// on a gridded blue sheet).
package styles

import (
	"bytes"
	"fmt"
	"slices"
)

// Style defines the visual appearance for canvas rendering.
type Style interface {
	// RenderDefs writes SVG <defs> content and any background.
	RenderDefs(buf *bytes.Buffer, width, height float64)
	// RenderEdge writes the line between a parent and a child.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderNode writes the shape of a single node.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderText writes a node's label.
	RenderText(buf *bytes.Buffer, n Node)
	// RenderCaption writes a line of text centered at x.
	RenderCaption(buf *bytes.Buffer, text string, x, y float64)
}

// Node contains all data needed to render a single tree node.
type Node struct {
	ID     int
	Label  string
	CX, CY float64 // Center
	R      float64 // Radius
	Leaf   bool
	Depth  int
}

// Edge contains positioning data for a parent→child line.
type Edge struct {
	FromID, ToID   int
	X1, Y1, X2, Y2 float64
}

var registry = map[string]Style{
	"simple":    Simple{},
	"blueprint": Blueprint{},
}

// Default is the name of the style used when none is given.
const Default = "simple"

// ByName returns the registered style with the given name.
func ByName(name string) (Style, error) {
	if name == "" {
		name = Default
	}
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown style %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered styles in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
