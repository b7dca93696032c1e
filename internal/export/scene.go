package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Triangle indices of a box mesh over the vertex order produced by boxVertices.
var (
	meshI = [12]int{7, 0, 0, 0, 4, 4, 6, 6, 4, 0, 3, 2}
	meshJ = [12]int{3, 4, 1, 2, 5, 6, 5, 2, 0, 1, 6, 3}
	meshK = [12]int{0, 7, 2, 3, 6, 7, 1, 1, 5, 5, 7, 6}
)

// SceneBox is one placed unit as a triangle mesh, ready for a 3D viewer.
type SceneBox struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Color string     `json:"color"`
	X     [8]float64 `json:"x"`
	Y     [8]float64 `json:"y"`
	Z     [8]float64 `json:"z"`
	I     [12]int    `json:"i"`
	J     [12]int    `json:"j"`
	K     [12]int    `json:"k"`
}

// Scene is the 3D view of a load: the trailer envelope and one box per unit.
type Scene struct {
	Container model.Container `json:"container"`
	Boxes     []SceneBox      `json:"boxes"`
}

// BuildScene converts placed units into mesh boxes. Units are read only.
func BuildScene(result model.PackingResult) Scene {
	colors := ColorIndex(result.PlacedUnits)
	scene := Scene{Container: result.Container, Boxes: make([]SceneBox, 0, len(result.PlacedUnits))}
	for _, p := range result.PlacedUnits {
		c := unitColors[colors[p.Unit.Label]]
		box := SceneBox{
			ID:    p.Unit.ID,
			Label: p.Unit.Label,
			Color: fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			I:     meshI,
			J:     meshJ,
			K:     meshK,
		}
		box.X, box.Y, box.Z = boxVertices(p)
		scene.Boxes = append(scene.Boxes, box)
	}
	return scene
}

// boxVertices returns the 8 corners of a placed unit: the bottom face
// first, then the top face.
func boxVertices(p model.PlacedUnit) (xs, ys, zs [8]float64) {
	x, y, z := p.X, p.Y, p.Z
	l, w, h := p.PlacedLength(), p.PlacedWidth(), p.Unit.Height
	xs = [8]float64{x, x, x + l, x + l, x, x, x + l, x + l}
	ys = [8]float64{y, y + w, y + w, y, y, y + w, y + w, y}
	zs = [8]float64{z, z, z, z, z + h, z + h, z + h, z + h}
	return xs, ys, zs
}

// WriteScene encodes the scene of a result as indented JSON.
func WriteScene(w io.Writer, result model.PackingResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildScene(result))
}

// ExportScene writes the 3D scene JSON to a file.
func ExportScene(path string, result model.PackingResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}
	if err := WriteScene(f, result); err != nil {
		f.Close()
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return f.Close()
}
