package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrConverterMissing is returned when rsvg-convert is not installed.
var ErrConverterMissing = errors.New("rsvg-convert not found")

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ConverterAvailable reports whether rsvg-convert is on PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, fmt.Errorf("%s export requires librsvg: %w. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format, ErrConverterMissing)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
