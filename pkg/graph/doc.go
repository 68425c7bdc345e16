// Package graph provides serialization types for expression trees and their
// layouts.
//
// This package defines the canonical wire format for exprtree's data, used
// for JSON and YAML files, API responses, and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/expr.Tree: Compiled expression tree
//   - pkg/layout.Layout: Computed coordinates
//
// Use [FromTree] and [ExportLayout] to go out, and [Layout.Parse] to come back
// to a renderable layout.
//
// # Graph Serialization
//
// Trees use a node-link format keyed by in-order id:
//
//	{
//	  "expression": "1+2",
//	  "result": "3",
//	  "nodes": [
//	    {"id": 0, "label": "1", "kind": "operand", "depth": 1},
//	    {"id": 1, "label": "+", "kind": "operator", "depth": 0},
//	    {"id": 2, "label": "2", "kind": "operand", "depth": 1}
//	  ],
//	  "edges": [{"from": 1, "to": 0}, {"from": 1, "to": 2}]
//	}
//
// # Layout Serialization
//
// Layouts add frame dimensions and per-node coordinates. The file format is
// picked from the extension: ".yaml" and ".yml" use YAML, anything else JSON.
//
//	graph.WriteLayoutFile(l, "tree.layout.json")
//	l, err := graph.ReadLayoutFile("tree.layout.yaml")
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
