// Package imageout writes rendered frame buffers to image files.
package imageout

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/render"
)

// ErrUnknownFormat is returned for a file extension or Format with no
// encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output image encoding.
type Format int

// The supported output formats.
const (
	None Format = iota
	PPM
	PNG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PPM:
		return "ppm"
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromExt returns the Format for a filename extension, which may
// start with a dot.
func FormatFromExt(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "ppm":
		return PPM, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return None, fmt.Errorf("extension %q: %w", ext, ErrUnknownFormat)
}

// Encode writes fb to w in format f.
func Encode(w io.Writer, fb *render.Framebuffer, f Format) error {
	switch f {
	case PPM:
		return EncodePPM(w, fb)
	case PNG:
		return png.Encode(w, fb.ToImage())
	case BMP:
		return bmp.Encode(w, fb.ToImage())
	case TIFF:
		return tiff.Encode(w, fb.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("encode %v: %w", f, ErrUnknownFormat)
}

// EncodePPM writes fb as a binary PPM: the header "P6\n<w> <h>\n255\n"
// followed by the raw row-major RGB bytes.
func EncodePPM(w io.Writer, fb *render.Framebuffer) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	_, err := w.Write(fb.RGB())
	return err
}

// Save writes fb to path, choosing the format from the file extension.
func Save(path string, fb *render.Framebuffer) error {
	f, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	bw := bufio.NewWriter(file)
	if err := Encode(bw, fb, f); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	logging.Logger().Debug("image saved", "path", path, "format", f.String(), "width", fb.Width, "height", fb.Height)
	return nil
}
