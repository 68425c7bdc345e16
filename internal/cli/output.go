package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/exprtree/pkg/pipeline"
)

// defaultBase names output files when neither --output nor an input file
// gives a name.
const defaultBase = "expr"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing. "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// basePath derives the output base from --output and the input file. A
// known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultBase
		}
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format. With a single format the
// output path is used as is.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output != "" {
		f := p.formats[0]
		if err := writeFile(p.output, p.artifacts[f]); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}
	if p.output == "-" {
		return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, f := range p.formats {
		path := base + "." + f
		if err := writeFile(path, p.artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// reportArtifacts prints the written files unless they went to stdout.
func reportArtifacts(paths []string) {
	for _, p := range paths {
		if p != "-" {
			printFile(p)
		}
	}
}
