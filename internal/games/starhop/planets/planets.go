// Package planets holds the fixed voyage: planet order, gravity,
// progression thresholds and quiz banks.
package planets

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop/quiz"
)

//go:embed planets.yaml
var defaultCatalogYAML []byte

// Planet is immutable per-run data for one stop of the voyage.
type Planet struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Gravity   float64         `yaml:"gravity"`
	ColorName string          `yaml:"color"`
	Threshold int             `yaml:"threshold"`
	Welcome   string          `yaml:"welcome"`
	Questions []quiz.Question `yaml:"questions"`

	Color core.Color `yaml:"-"`
}

// Catalog is the ordered list of planets. It is never mutated after Parse.
type Catalog struct {
	planets []Planet
	index   map[string]int
}

// Default returns the embedded eight-planet catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Planets []Planet `yaml:"planets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("planets: cannot parse catalog: %w", err)
	}
	if len(doc.Planets) == 0 {
		return nil, fmt.Errorf("planets: catalog is empty")
	}

	c := &Catalog{
		planets: doc.Planets,
		index:   make(map[string]int, len(doc.Planets)),
	}
	for i := range c.planets {
		p := &c.planets[i]
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		if p.ID == "" {
			return nil, fmt.Errorf("planets: entry %d has no id", i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("planets: duplicate id %q", p.ID)
		}
		if p.Gravity <= 0 {
			return nil, fmt.Errorf("planets: %s gravity must be positive", p.ID)
		}
		if p.Threshold <= 0 {
			return nil, fmt.Errorf("planets: %s threshold must be positive", p.ID)
		}
		if len(p.Questions) == 0 {
			return nil, fmt.Errorf("planets: %s has no questions", p.ID)
		}
		for _, q := range p.Questions {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("planets: %s: %w", p.ID, err)
			}
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if color, ok := core.ParseColor(p.ColorName); ok {
			p.Color = color
		} else {
			p.Color = core.ColorWhite
		}
		c.index[p.ID] = i
	}
	return c, nil
}

// Len returns the number of planets.
func (c *Catalog) Len() int { return len(c.planets) }

// At returns the planet at the given voyage index.
// Out-of-range indices are clamped.
func (c *Catalog) At(i int) Planet {
	return c.planets[core.Clamp(i, 0, len(c.planets)-1)]
}

// First returns the first planet of the voyage.
func (c *Catalog) First() Planet { return c.planets[0] }

// IndexOf returns the voyage index of a planet id.
func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(id))]
	return i, ok
}

// HasNext reports whether a planet follows index i.
func (c *Catalog) HasNext(i int) bool {
	return i+1 < len(c.planets)
}

// IDs returns planet ids in voyage order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.planets))
	for i, p := range c.planets {
		ids[i] = p.ID
	}
	return ids
}

// PickQuestion draws a question from the planet's bank.
func (p Planet) PickQuestion(rng *rand.Rand) quiz.Question {
	return p.Questions[rng.Intn(len(p.Questions))]
}
