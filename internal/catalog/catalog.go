// Package catalog holds the static lesson content. It is read-only after load.
package catalog

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vytor/linguaflash/internal/models"
)

//go:embed content/*.yaml
var contentFS embed.FS

const defaultContent = "content/units.yaml"

type Catalog struct {
	units []models.Unit
	byID  map[string]int
}

type document struct {
	Units []models.Unit `yaml:"units"`
}

// Load parses the embedded content, or the file at path when path is non-empty.
func Load(path string) (*Catalog, error) {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = contentFS.ReadFile(defaultContent)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// MustLoad is Load for the embedded content; it panics on a broken build.
func MustLoad() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates catalog YAML.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(doc.Units)
}

// New builds a catalog from already decoded units.
func New(units []models.Unit) (*Catalog, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("catalog has no units")
	}
	c := &Catalog{units: units, byID: make(map[string]int, len(units))}
	for i, u := range units {
		if u.ID == "" {
			return nil, fmt.Errorf("unit %d has no id", i)
		}
		if _, dup := c.byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate unit id %q", u.ID)
		}
		if len(u.Lessons) == 0 {
			return nil, fmt.Errorf("unit %q has no lessons", u.ID)
		}
		seen := make(map[string]bool, len(u.Lessons))
		for _, l := range u.Lessons {
			if l.ID == "" || seen[l.ID] {
				return nil, fmt.Errorf("unit %q has a missing or duplicate lesson id %q", u.ID, l.ID)
			}
			seen[l.ID] = true
		}
		c.byID[u.ID] = i
	}
	return c, nil
}

func (c *Catalog) Units() []models.Unit {
	return c.units
}

func (c *Catalog) FirstUnitID() string {
	return c.units[0].ID
}

func (c *Catalog) Unit(id string) (models.Unit, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Unit{}, false
	}
	return c.units[i], true
}

func (c *Catalog) Lesson(unitID, lessonID string) (models.Lesson, bool) {
	u, ok := c.Unit(unitID)
	if !ok {
		return models.Lesson{}, false
	}
	i := u.LessonIndex(lessonID)
	if i < 0 {
		return models.Lesson{}, false
	}
	return u.Lessons[i], true
}
