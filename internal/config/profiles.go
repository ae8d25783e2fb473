package config

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile is a named feature-gate: the set of source-level token and node
// kinds a parser running under this gate is allowed to accept. Matches the
// OVERVIEW's named profile examples (min, sovereign, service).
type Profile struct {
	Name           string   `yaml:"name"`
	AllowedTokens  []string `yaml:"allowed_tokens"`
	AllowedNodes   []string `yaml:"allowed_nodes"`
	InheritsFrom   string   `yaml:"inherits_from,omitempty"`
}

// ProfileSet is a named registry of profiles loaded from a document such as:
//
//	profiles:
//	  - name: min
//	    allowed_tokens: [func, let, if, else, return]
//	  - name: sovereign
//	    inherits_from: min
//	    allowed_tokens: [nursery, spawn, select, using]
type ProfileSet struct {
	Profiles map[string]Profile
}

type profileDoc struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles parses a profiles.yaml document and resolves `inherits_from`
// chains into flat allow-lists. A cycle in inherits_from is an error.
func LoadProfiles(data []byte) (*ProfileSet, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "config: parse profiles document")
	}

	raw := make(map[string]Profile, len(doc.Profiles))
	for _, p := range doc.Profiles {
		raw[p.Name] = p
	}

	resolved := make(map[string]Profile, len(raw))
	var resolve func(name string, seen map[string]bool) (Profile, error)
	resolve = func(name string, seen map[string]bool) (Profile, error) {
		if p, ok := resolved[name]; ok {
			return p, nil
		}
		p, ok := raw[name]
		if !ok {
			return Profile{}, errors.Errorf("config: profile %q not defined", name)
		}
		if seen[name] {
			return Profile{}, errors.Errorf("config: cyclic inherits_from at profile %q", name)
		}
		seen[name] = true

		if p.InheritsFrom != "" {
			parent, err := resolve(p.InheritsFrom, seen)
			if err != nil {
				return Profile{}, err
			}
			p.AllowedTokens = mergeUnique(parent.AllowedTokens, p.AllowedTokens)
			p.AllowedNodes = mergeUnique(parent.AllowedNodes, p.AllowedNodes)
		}
		resolved[name] = p
		return p, nil
	}

	for name := range raw {
		if _, err := resolve(name, map[string]bool{}); err != nil {
			return nil, err
		}
	}
	return &ProfileSet{Profiles: resolved}, nil
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// AllowsToken reports whether the named profile's allow-list contains kind.
// An unknown profile allows nothing (fail closed).
func (ps *ProfileSet) AllowsToken(profile, kind string) bool {
	p, ok := ps.Profiles[profile]
	if !ok {
		return false
	}
	for _, k := range p.AllowedTokens {
		if k == kind {
			return true
		}
	}
	return false
}

// Get returns the named profile, or false if undefined.
func (ps *ProfileSet) Get(name string) (Profile, bool) {
	p, ok := ps.Profiles[name]
	return p, ok
}

func (p Profile) String() string {
	return fmt.Sprintf("Profile{%s, %d token kinds, %d node kinds}", p.Name, len(p.AllowedTokens), len(p.AllowedNodes))
}
