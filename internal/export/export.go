package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ivlev/hotspots/internal/hotspot"
)

// ErrSinkUnwritable wraps every failure to create or write an output.
var ErrSinkUnwritable = errors.New("hotspot sink unwritable")

// Exporter serializes a hotspot list into a target-specific text format.
type Exporter interface {
	Export(w io.Writer, list hotspot.List) error
}

// DefaultName is the list identifier used when none is configured.
const DefaultName = "hotspots"

// NewExporter creates an exporter for format, naming the emitted list name.
func NewExporter(format, name string) (Exporter, error) {
	if name == "" {
		name = DefaultName
	}
	switch format {
	case "ts", "":
		return &LiteralExporter{Name: name, Header: "export const %s = [\n", Footer: "];\n"}, nil
	case "js":
		return &LiteralExporter{Name: name, Header: "const %s = [\n", Footer: "];\n\nmodule.exports = { %s };\n"}, nil
	case "yaml":
		return &YAMLExporter{Name: name}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case "js":
		return ".js"
	case "yaml":
		return ".yaml"
	default:
		return ".ts"
	}
}

// WriteFile exports list to path, creating parent directories.
func WriteFile(exp Exporter, list hotspot.List, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}

	if err := exp.Export(f, list); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnwritable, err)
	}
	return nil
}
