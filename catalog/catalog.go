// Package catalog holds the immutable reference tables the rules engine looks up by id.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"deepregrets/meta"
)

var ErrUnknownID = errors.New("unknown id")

//go:embed data.yaml
var defaultData []byte

// Catalog indexes every card and die instance. It is never written after Load.
type Catalog struct {
	Fish       []FishCard
	Regrets    []RegretCard
	Upgrades   []UpgradeCard
	Dinks      []DinkCard
	TackleDice []TackleDie
	Characters []Character

	upgrades   map[string]UpgradeCard
	dinks      map[string]DinkCard
	tackle     map[string]TackleDie
	characters map[string]Character
}

type fishEntry struct {
	FishCard `yaml:",inline"`
	Count    int `yaml:"count"`
}

type regretEntry struct {
	RegretCard `yaml:",inline"`
	Count      int `yaml:"count"`
}

type dinkEntry struct {
	DinkCard `yaml:",inline"`
	Count    int `yaml:"count"`
}

type tackleEntry struct {
	TackleDie `yaml:",inline"`
	Count     int `yaml:"count"`
}

type document struct {
	Fish       []fishEntry   `yaml:"fish"`
	Regrets    []regretEntry `yaml:"regrets"`
	Upgrades   []UpgradeCard `yaml:"upgrades"`
	Dinks      []dinkEntry   `yaml:"dinks"`
	TackleDice []tackleEntry `yaml:"tackleDice"`
	Characters []Character   `yaml:"characters"`
}

var (
	defaultCatalog *Catalog
	once           sync.Once
)

// Default returns the catalog built from the embedded data tables.
func Default() *Catalog {
	once.Do(func() {
		c, err := Load(defaultData)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(data)
}

// Load decodes YAML tables and expands card counts into instances.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		upgrades:   make(map[string]UpgradeCard),
		dinks:      make(map[string]DinkCard),
		tackle:     make(map[string]TackleDie),
		characters: make(map[string]Character),
	}

	for _, e := range doc.Fish {
		if e.Depth < 1 || e.Depth > meta.MAX_DEPTH {
			return nil, fmt.Errorf("fish %s: depth %d out of range", e.ID, e.Depth)
		}
		if e.Quality != Fair && e.Quality != Foul {
			return nil, fmt.Errorf("fish %s: quality %q", e.ID, e.Quality)
		}
		for i := 1; i <= max(e.Count, 1); i++ {
			f := e.FishCard
			f.Species = e.ID
			f.ID = fmt.Sprintf("%s-%d", e.ID, i)
			c.Fish = append(c.Fish, f)
		}
	}
	for _, e := range doc.Regrets {
		if e.Value < 0 || e.Value > 3 {
			return nil, fmt.Errorf("regret %s: value %d out of range", e.ID, e.Value)
		}
		for i := 1; i <= max(e.Count, 1); i++ {
			r := e.RegretCard
			r.ID = fmt.Sprintf("%s-%d", e.ID, i)
			c.Regrets = append(c.Regrets, r)
		}
	}
	for _, u := range doc.Upgrades {
		switch u.Kind {
		case Rod, Reel, Supply:
		default:
			return nil, fmt.Errorf("upgrade %s: kind %q", u.ID, u.Kind)
		}
		c.Upgrades = append(c.Upgrades, u)
		c.upgrades[u.ID] = u
	}
	for _, e := range doc.Dinks {
		for i := 1; i <= max(e.Count, 1); i++ {
			d := e.DinkCard
			d.ID = fmt.Sprintf("%s-%d", e.ID, i)
			c.Dinks = append(c.Dinks, d)
			c.dinks[d.ID] = d
		}
	}
	for _, e := range doc.TackleDice {
		if len(e.Faces) == 0 {
			return nil, fmt.Errorf("tackle die %s: no faces", e.ID)
		}
		for i := 1; i <= max(e.Count, 1); i++ {
			d := e.TackleDie
			d.ID = fmt.Sprintf("%s-%d", e.ID, i)
			c.TackleDice = append(c.TackleDice, d)
			c.tackle[d.ID] = d
		}
	}
	for _, ch := range doc.Characters {
		c.Characters = append(c.Characters, ch)
		c.characters[ch.ID] = ch
	}
	return c, nil
}

func (c *Catalog) Upgrade(id string) (UpgradeCard, error) {
	if u, ok := c.upgrades[id]; ok {
		return u, nil
	}
	return UpgradeCard{}, unknown("upgrade", id, c.upgrades)
}

func (c *Catalog) Dink(id string) (DinkCard, error) {
	if d, ok := c.dinks[id]; ok {
		return d, nil
	}
	return DinkCard{}, unknown("dink", id, c.dinks)
}

func (c *Catalog) TackleDie(id string) (TackleDie, error) {
	if d, ok := c.tackle[id]; ok {
		return d, nil
	}
	return TackleDie{}, unknown("tackle die", id, c.tackle)
}

func (c *Catalog) Character(id string) (Character, error) {
	if ch, ok := c.characters[id]; ok {
		return ch, nil
	}
	return Character{}, unknown("character", id, c.characters)
}

// UpgradeIDs returns the ids of every upgrade of the given kind, in table order.
func (c *Catalog) UpgradeIDs(kind UpgradeKind) []string {
	var ids []string
	for _, u := range c.Upgrades {
		if u.Kind == kind {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func unknown[T any](kind, id string, known map[string]T) error {
	if s := Suggest(id, keys(known)); s != "" {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownID, kind, id, s)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownID, kind, id)
}

func keys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Suggest returns the candidate closest to input by edit distance, or "" when
// nothing is within half the input's length.
func Suggest(input string, candidates []string) string {
	best := ""
	bestDist := len(input)/2 + 1
	for _, cand := range candidates {
		if d := levenshtein.ComputeDistance(input, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
