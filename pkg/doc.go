// Package pkg provides the libraries behind exprtree, a compiler for infix
// arithmetic expressions.
//
// # Overview
//
// exprtree turns an expression such as "2 + 3 * (4 - 1)" into an annotated
// binary expression tree, evaluates it, and places every node on a grid so the
// tree can be drawn. The pkg directory is organized into three areas:
//
//  1. Core - [expr] (parse, annotate, evaluate) and [layout] (grid placement)
//  2. Output - [graph] (serialization), [render] (SVG, PNG, PDF, DOT, text)
//  3. Infrastructure - [pipeline], [cache], [session], [server], [config],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow through exprtree:
//
//	expression text
//	       ↓
//	  [expr] package (operand and operator stacks → annotated Tree)
//	       ↓
//	  [layout] package (node (id, depth) → (x, y) in a width × height frame)
//	       ↓
//	  [graph] package (serializable Layout with result and diagnostics)
//	       ↓
//	  [render] packages (SVG/PNG/PDF/DOT/JSON/YAML/text)
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP server so both produce identical output.
//
// # Quick Start
//
//	t, err := expr.Compile("(2+3)*4")
//	if err != nil {
//	    return err
//	}
//	l := layout.Compute(t, 800, 600)
//	svg := sink.RenderSVG(l, sink.WithResult(t.ResultString()))
//
// Or through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Expression: "(2+3)*4",
//	    Formats:    []string{pipeline.FormatSVG, pipeline.FormatJSON},
//	})
//
// # Main Packages
//
// [expr] - Single-pass dual-stack parser with recoverable diagnostics,
// depth and in-order id annotation, and IEEE-754 evaluation.
//
// [layout] - Places each node at ((id+1)·cellWidth, (depth+1)·cellHeight).
//
// [graph] - JSON and YAML serialization of trees and layouts.
//
// [render] - Canvas renderers in [render/sink] with visual styles from
// [render/styles], Graphviz diagrams in [render/nodelink], and SVG to PDF/PNG
// conversion.
//
// [cache] - Content-addressed cache with file, Redis, and null backends.
//
// [session] - Compiler sessions holding the current tree per client, stored
// in memory, files, Redis, or MongoDB.
//
// [server] - HTTP API over sessions and the pipeline.
//
// [observability] - Pipeline, cache, and HTTP hooks with a Prometheus
// implementation in [observability/prom].
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/expr/...               # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis-backed tests use an in-process miniredis. MongoDB tests run only when
// EXPRTREE_TEST_MONGO_URI is set.
//
// [expr]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/expr
// [layout]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/exprtree/pkg/buildinfo
package pkg
