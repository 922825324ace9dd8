// Package garment holds the garment catalog, the pretrained blend-shape
// model library and the garment mesh synthesizer.
package garment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// ErrGarmentNotFound indicates an id absent from the catalog.
var ErrGarmentNotFound = errors.New("garment not found")

// Colorway is one selectable color of a garment.
type Colorway struct {
	ID    string
	Name  string
	Color mesh.Color
	Hex   string
}

// Size is one selectable garment size with its mesh scale.
type Size struct {
	ID    string
	Scale float64
}

// Definition describes one garment from the manifest. Colorways keep
// manifest declaration order: the first one is the default.
type Definition struct {
	ID           string
	Name         string
	Category     string
	Sizes        []Size
	Colorways    []Colorway
	WidthFactor  float64
	HeightFactor float64
	Depth        float64
}

// SizeScale returns the scale for a size id, 1.0 when the id is unknown
// or the garment declares no sizes.
func (d *Definition) SizeScale(id string) float64 {
	for _, size := range d.Sizes {
		if size.ID == id {
			return size.Scale
		}
	}
	return 1.0
}

// ResolveColorway picks a colorway by id, then by case-insensitive
// name, then falls back to the first declared one.
func (d *Definition) ResolveColorway(id string) Colorway {
	if id != "" {
		for _, c := range d.Colorways {
			if c.ID == id {
				return c
			}
		}
		for _, c := range d.Colorways {
			if strings.EqualFold(c.Name, id) {
				return c
			}
		}
	}
	return d.Colorways[0]
}

// ColorwaySummary is the API-facing colorway listing entry.
type ColorwaySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Summary is the API-facing garment listing entry.
type Summary struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Sizes           []string          `json:"sizes"`
	Colorways       []ColorwaySummary `json:"colorways"`
	SupportsPhysics bool              `json:"supports_physics"`
}

// Catalog is the loaded garment manifest plus the pretrained model
// library backing it.
type Catalog struct {
	garments map[string]*Definition
	order    []string
	models   *Library
	log      *zap.Logger
}

type manifestFile struct {
	Garments []manifestGarment `yaml:"garments"`
}

type manifestGarment struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Category     string             `yaml:"category"`
	WidthFactor  float64            `yaml:"width_factor"`
	HeightFactor float64            `yaml:"height_factor"`
	Depth        float64            `yaml:"depth"`
	Sizes        []manifestSize     `yaml:"sizes"`
	Colorways    []manifestColorway `yaml:"colorways"`
}

type manifestSize struct {
	ID    string  `yaml:"id"`
	Scale float64 `yaml:"scale"`
}

type manifestColorway struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// LoadCatalog reads garments.yaml under root and opens the model
// library in root/models. A nil logger disables logging.
func LoadCatalog(root string, cacheSize int, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := os.ReadFile(filepath.Join(root, "garments.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading garment manifest: %w", err)
	}
	var manifest manifestFile
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing garment manifest: %w", err)
	}

	models, err := NewLibrary(filepath.Join(root, "models"), cacheSize, log)
	if err != nil {
		return nil, err
	}

	catalog := &Catalog{
		garments: make(map[string]*Definition, len(manifest.Garments)),
		models:   models,
		log:      log,
	}
	for _, entry := range manifest.Garments {
		def, err := buildDefinition(entry)
		if err != nil {
			return nil, err
		}
		catalog.garments[def.ID] = def
		catalog.order = append(catalog.order, def.ID)
	}

	log.Info("loaded garment definitions", zap.Int("count", len(catalog.garments)))
	return catalog, nil
}

func buildDefinition(entry manifestGarment) (*Definition, error) {
	if entry.ID == "" {
		return nil, errors.New("garment manifest entry missing id")
	}
	if len(entry.Colorways) == 0 {
		return nil, fmt.Errorf("garment %s declares no colorways", entry.ID)
	}

	def := &Definition{
		ID:           entry.ID,
		Name:         entry.Name,
		Category:     entry.Category,
		WidthFactor:  entry.WidthFactor,
		HeightFactor: entry.HeightFactor,
		Depth:        entry.Depth,
	}
	if def.Name == "" {
		def.Name = def.ID
	}
	if def.Category == "" {
		def.Category = "unknown"
	}
	if def.WidthFactor == 0 {
		def.WidthFactor = 1.2
	}
	if def.HeightFactor == 0 {
		def.HeightFactor = 1.4
	}
	if def.Depth == 0 {
		def.Depth = 0.12
	}

	for _, size := range entry.Sizes {
		scale := size.Scale
		if scale == 0 {
			scale = 1.0
		}
		def.Sizes = append(def.Sizes, Size{ID: size.ID, Scale: scale})
	}

	for _, cw := range entry.Colorways {
		rgba, err := ParseHexColor(cw.Color)
		if err != nil {
			return nil, fmt.Errorf("garment %s colorway %s: %w", entry.ID, cw.ID, err)
		}
		hex, err := NormalizeHex(cw.Color)
		if err != nil {
			return nil, fmt.Errorf("garment %s colorway %s: %w", entry.ID, cw.ID, err)
		}
		name := cw.Name
		if name == "" {
			name = cw.ID
		}
		def.Colorways = append(def.Colorways, Colorway{ID: cw.ID, Name: name, Color: rgba, Hex: hex})
	}
	return def, nil
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (*Definition, error) {
	def, ok := c.garments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGarmentNotFound, id)
	}
	return def, nil
}

// HasModel reports whether a pretrained model file exists for id.
func (c *Catalog) HasModel(id string) bool {
	return c.models.Has(id)
}

// Models returns the pretrained model library.
func (c *Catalog) Models() *Library {
	return c.models
}

// List returns manifest-ordered garment summaries for API consumers.
func (c *Catalog) List() []Summary {
	summaries := make([]Summary, 0, len(c.order))
	for _, id := range c.order {
		def := c.garments[id]
		summary := Summary{
			ID:              def.ID,
			Name:            def.Name,
			Category:        def.Category,
			SupportsPhysics: c.models.Has(def.ID),
		}
		for _, size := range def.Sizes {
			summary.Sizes = append(summary.Sizes, size.ID)
		}
		for _, cw := range def.Colorways {
			summary.Colorways = append(summary.Colorways, ColorwaySummary{ID: cw.ID, Name: cw.Name, Color: cw.Hex})
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
