package sink

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/matzehuels/rankplot/pkg/canvas"
	"github.com/matzehuels/rankplot/pkg/errors"
)

// RenderPDF renders scene as SVG and converts it to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(scene canvas.Scene, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(scene, opts...), "pdf")
}

// HasPDFSupport reports whether rsvg-convert is installed.
func HasPDFSupport() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HasPDFSupport() {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Errorf("%v: %s", err, errBuf.String()), "rsvg-convert")
	}
	return out.Bytes(), nil
}
