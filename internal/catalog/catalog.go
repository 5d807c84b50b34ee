package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GPU describes one catalog entry: rated power draw and cloud rental price.
type GPU struct {
	Watts         float64 `yaml:"watts"`
	HourlyCostUSD float64 `yaml:"hourly_cost_usd"`
}

// Catalog maps GPU model names to their power and pricing attributes. It is
// read-only after startup. Iteration order is insertion order, which keeps
// cheapest-option tie-breaks deterministic.
type Catalog struct {
	ids  []string
	gpus map[string]GPU
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{gpus: make(map[string]GPU)}
}

// Builtin returns the compiled-in GPU table.
func Builtin() *Catalog {
	c := New()
	for _, e := range []struct {
		id  string
		gpu GPU
	}{
		{"RTX 3090", GPU{Watts: 350, HourlyCostUSD: 1.80}},
		{"A100", GPU{Watts: 400, HourlyCostUSD: 3.50}},
		{"RTX 4090", GPU{Watts: 450, HourlyCostUSD: 2.20}},
	} {
		c.ids = append(c.ids, e.id)
		c.gpus[e.id] = e.gpu
	}
	return c
}

// Add registers a GPU under id. Duplicate and empty ids are rejected.
func (c *Catalog) Add(id string, g GPU) error {
	if id == "" {
		return fmt.Errorf("gpu id must not be empty")
	}
	if _, ok := c.gpus[id]; ok {
		return fmt.Errorf("duplicate gpu id %q", id)
	}
	c.ids = append(c.ids, id)
	c.gpus[id] = g
	return nil
}

// Get looks up a GPU by id.
func (c *Catalog) Get(id string) (GPU, bool) {
	g, ok := c.gpus[id]
	return g, ok
}

// IDs returns the catalog keys in insertion order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// fileEntry is one row of a catalog file. The file is a YAML list so entry
// order is preserved.
type fileEntry struct {
	ID            string  `yaml:"id"`
	Watts         float64 `yaml:"watts"`
	HourlyCostUSD float64 `yaml:"hourly_cost_usd"`
}

// Load reads a catalog from a YAML file, replacing the builtin table.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var entries []fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s has no entries", path)
	}

	c := New()
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d: id is required", i)
		}
		if e.Watts <= 0 {
			return nil, fmt.Errorf("catalog entry %q: watts must be positive, got %v", e.ID, e.Watts)
		}
		if e.HourlyCostUSD < 0 {
			return nil, fmt.Errorf("catalog entry %q: hourly_cost_usd must not be negative, got %v", e.ID, e.HourlyCostUSD)
		}
		if err := c.Add(e.ID, GPU{Watts: e.Watts, HourlyCostUSD: e.HourlyCostUSD}); err != nil {
			return nil, err
		}
	}
	return c, nil
}
