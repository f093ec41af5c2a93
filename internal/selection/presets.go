package selection

import (
	"fmt"
	"sort"
)

// Preset is a named list of columns expected in a known file layout.
type Preset struct {
	Name    string   `yaml:"name" json:"name"`
	File    string   `yaml:"file" json:"file,omitempty"`
	Columns []string `yaml:"columns" json:"columns"`
}

// DefaultPresets returns the built-in presets for the two S2P export layouts.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:    "Vendors example",
			File:    "S2P - Vendors.csv",
			Columns: []string{"CompanyCode", "Number", "Name"},
		},
		{
			Name:    "G_L accounts example",
			File:    "[Manual Import] S2P - G_L accounts.csv",
			Columns: []string{"CompanyCode", "Account", "Description", "Z_CodingBlock"},
		},
	}
}

// Apply returns the preset's columns when every one of them is present in
// headers.
func Apply(p Preset, headers []string) ([]string, error) {
	if len(headers) == 0 {
		return nil, ErrNoDataset
	}
	if missing := missingColumns(headers, p.Columns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return append([]string(nil), p.Columns...), nil
}

// Catalog holds presets by name, preserving their configured order.
type Catalog struct {
	order   []string
	presets map[string]Preset
}

// NewCatalog builds a catalog. Presets without a name or columns are
// rejected, as are repeated names.
func NewCatalog(presets []Preset) (*Catalog, error) {
	c := &Catalog{presets: make(map[string]Preset, len(presets))}
	for i, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name is required", i)
		}
		if len(p.Columns) == 0 {
			return nil, fmt.Errorf("preset %q: at least one column is required", p.Name)
		}
		if _, dup := c.presets[p.Name]; dup {
			return nil, fmt.Errorf("preset %q: defined more than once", p.Name)
		}
		c.order = append(c.order, p.Name)
		c.presets[p.Name] = p
	}
	return c, nil
}

// Lookup returns the named preset.
func (c *Catalog) Lookup(name string) (Preset, error) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// List returns the presets in configured order.
func (c *Catalog) List() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.presets[name])
	}
	return out
}

// Names returns the preset names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}
