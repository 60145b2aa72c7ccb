package texbank

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
)

// createFile opens export destinations.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// ExportPNG writes the canvas of a layer to w.
func (b *Bank) ExportPNG(targetID, name string, w io.Writer) error {
	l := b.Layer(targetID, name)
	if l == nil {
		return fmt.Errorf("no layer %s/%s", targetID, name)
	}
	if err := imaging.Encode(w, l.canvas, imaging.PNG); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// ExportFile writes a layer to dir as <target>_<layer>_<timestamp>.png and
// returns the path.
func (b *Bank) ExportFile(dir, targetID, name string) (_ string, err error) {
	if b.Layer(targetID, name) == nil {
		return "", fmt.Errorf("no layer %s/%s", targetID, name)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", targetID, name, timestamp))

	file, err := createFile(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing file: %w", cerr))
		}
	}()

	if err := b.ExportPNG(targetID, name, file); err != nil {
		return "", err
	}
	return filename, nil
}
