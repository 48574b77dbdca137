package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/labyrinth/internal/grid"
)

// Format selects the file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// File is the on-disk shape of an exported grid. Cells use the wire codes.
type File struct {
	Rows  int         `json:"rows" yaml:"rows"`
	Cols  int         `json:"cols" yaml:"cols"`
	Grid  [][]int     `json:"grid" yaml:"grid,flow"`
	Start *grid.Coord `json:"start,omitempty" yaml:"start,omitempty"`
	End   *grid.Coord `json:"end,omitempty" yaml:"end,omitempty"`
}

// FromGrid captures g by value.
func FromGrid(g *grid.Grid) File {
	f := File{Rows: g.Rows(), Cols: g.Cols(), Grid: g.Encode()}
	if s, ok := g.Start(); ok {
		f.Start = &s
	}
	if e, ok := g.End(); ok {
		f.End = &e
	}
	return f
}

// Decode validates the file and rebuilds the grid.
func (f File) Decode() (*grid.Grid, error) {
	g, err := grid.Decode(f.Grid)
	if err != nil {
		return nil, err
	}
	if g.Rows() != f.Rows || g.Cols() != f.Cols {
		return nil, fmt.Errorf("snapshot: header says %dx%d, matrix is %dx%d", f.Rows, f.Cols, g.Rows(), g.Cols())
	}
	if err := checkMarker("start", f.Start, g.Start); err != nil {
		return nil, err
	}
	if err := checkMarker("end", f.End, g.End); err != nil {
		return nil, err
	}
	return g, nil
}

func checkMarker(name string, declared *grid.Coord, actual func() (grid.Coord, bool)) error {
	pos, ok := actual()
	switch {
	case declared == nil && !ok:
		return nil
	case declared == nil || !ok || *declared != pos:
		return fmt.Errorf("snapshot: %s marker does not match the grid", name)
	}
	return nil
}

// Marshal encodes g in the given format.
func Marshal(g *grid.Grid, format Format) ([]byte, error) {
	f := FromGrid(g)
	switch format {
	case YAML:
		return yaml.Marshal(f)
	case JSON:
		return json.MarshalIndent(f, "", "  ")
	default:
		return nil, fmt.Errorf("snapshot: unknown format %q", format)
	}
}

// Unmarshal decodes data in the given format and validates it.
func Unmarshal(data []byte, format Format) (*grid.Grid, error) {
	var f File
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &f)
	case JSON:
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("snapshot: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", format, err)
	}
	return f.Decode()
}

// Save writes g to path atomically, choosing the format from the extension.
func Save(path string, g *grid.Grid) error {
	data, err := Marshal(g, FormatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot written by Save.
func Load(path string) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot: %s does not exist", path)
		}
		return nil, err
	}
	return Unmarshal(data, FormatFor(path))
}
