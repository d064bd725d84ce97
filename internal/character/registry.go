package character

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is the read-only set of archetypes loaded at startup
type Registry struct {
	classes map[ID]Class
}

func Default() *Registry {
	return &Registry{classes: defaults()}
}

// Load reads a YAML file keyed by class id and merges each entry over the
// built in table. Fields missing from the file keep their default values.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, fmt.Errorf("unable to read class file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	r := Default()

	var raw map[ID]yaml.Node
	if err := yaml.Unmarshal(data, &raw); nil != err {
		return nil, fmt.Errorf("unable to parse class file: %w", err)
	}
	for id, node := range raw {
		c, ok := r.classes[id]
		if !ok {
			c = r.classes[Warrior]
			c.Name = string(id)
		}
		if err := node.Decode(&c); nil != err {
			return nil, fmt.Errorf("unable to decode class %v: %w", id, err)
		}
		c.ID = id
		if c.Rhythm.PerfectCritChance < 0 || c.Rhythm.PerfectCritChance > 1 {
			return nil, fmt.Errorf("class %v crit chance %v outside [0, 1]", id, c.Rhythm.PerfectCritChance)
		}
		r.classes[id] = c
	}
	return r, nil
}

// Get returns the archetype for id, falling back to the warrior
func (r *Registry) Get(id ID) Class {
	if c, ok := r.classes[id]; ok {
		return c
	}
	return r.classes[Warrior]
}

func (r *Registry) Has(id ID) bool {
	_, ok := r.classes[id]
	return ok
}

// IDs lists the known archetypes in name order
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.classes))
	for id := range r.classes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
