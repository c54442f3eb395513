package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ArenaPreset describes one arena layout. Length runs goal to goal (x),
// Height wall to wall (z). PaddleInset is the distance from a goal line to
// the paddle centre.
type ArenaPreset struct {
	Name         string  `yaml:"name"`
	Length       float64 `yaml:"length"`
	Height       float64 `yaml:"height"`
	BallRadius   float64 `yaml:"ball_radius"`
	PaddleWidth  float64 `yaml:"paddle_width"`
	PaddleHeight float64 `yaml:"paddle_height"`
	PaddleInset  float64 `yaml:"paddle_inset"`
	Note         string  `yaml:"note"`
}

// ArenaTable indexes presets by name.
type ArenaTable struct {
	presets map[string]*ArenaPreset
}

// LoadArenaTable loads arena_list.yaml.
func LoadArenaTable(path string) (*ArenaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena list: %w", err)
	}
	return ParseArenaTable(raw)
}

// ParseArenaTable builds a table from YAML bytes.
func ParseArenaTable(raw []byte) (*ArenaTable, error) {
	var entries []ArenaPreset
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse arena list: %w", err)
	}
	t := &ArenaTable{presets: make(map[string]*ArenaPreset, len(entries))}
	for i := range entries {
		p := &entries[i]
		if p.Name == "" {
			return nil, fmt.Errorf("arena entry %d has no name", i)
		}
		if _, dup := t.presets[p.Name]; dup {
			return nil, fmt.Errorf("duplicate arena %q", p.Name)
		}
		if p.PaddleInset <= 0 || p.PaddleInset >= p.Length/2 {
			return nil, fmt.Errorf("arena %q: paddle_inset %v outside (0, %v)", p.Name, p.PaddleInset, p.Length/2)
		}
		t.presets[p.Name] = p
	}
	return t, nil
}

// Get returns the named preset, or nil.
func (t *ArenaTable) Get(name string) *ArenaPreset {
	return t.presets[name]
}

// Names lists preset names in sorted order.
func (t *ArenaTable) Names() []string {
	out := make([]string, 0, len(t.presets))
	for name := range t.presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of presets loaded.
func (t *ArenaTable) Count() int {
	return len(t.presets)
}
