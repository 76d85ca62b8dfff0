package backend

import (
	"strings"

	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/errors"
)

// Selection assigns exactly one backend kind to every capability group.
type Selection struct {
	Profile string
	Kinds   map[Group]Kind
}

// Kind returns the backend serving the group.
func (s Selection) Kind(g Group) Kind {
	return s.Kinds[g]
}

// DistinctKinds returns the kinds in use, relational first.
func (s Selection) DistinctKinds() []Kind {
	var kinds []Kind
	for _, k := range []Kind{Relational, Document} {
		for _, g := range AllGroups() {
			if s.Kinds[g] == k {
				kinds = append(kinds, k)

				break
			}
		}
	}

	return kinds
}

func uniform(k Kind) map[Group]Kind {
	return map[Group]Kind{
		GroupUsers:   k,
		GroupPlaces:  k,
		GroupTravel:  k,
		GroupReviews: k,
	}
}

var profiles = map[string]map[Group]Kind{
	"local":      uniform(Relational),
	"test":       uniform(Relational),
	"docker":     uniform(Relational),
	"postgresql": uniform(Relational),
	"aws":        uniform(Document),
	"dynamodb":   uniform(Document),
	"hybrid": {
		GroupUsers:   Relational,
		GroupTravel:  Relational,
		GroupPlaces:  Document,
		GroupReviews: Document,
	},
}

// Profiles returns the known profile names.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}

	return names
}

// Select resolves a profile name into a Selection. It performs no I/O.
func Select(profile string) (Selection, error) {
	name := strings.ToLower(strings.TrimSpace(profile))
	table, ok := profiles[name]
	if !ok {
		return Selection{}, errors.Wrapf(domainerrors.ErrBackendConfiguration, "unknown profile %q", profile)
	}

	return selectFrom(name, table)
}

func selectFrom(name string, table map[Group]Kind) (Selection, error) {
	kinds := make(map[Group]Kind, len(table))
	for _, g := range AllGroups() {
		k, ok := table[g]
		if !ok {
			return Selection{}, errors.Wrapf(domainerrors.ErrBackendConfiguration, "profile %q has no backend for group %q", name, g)
		}
		if k != Relational && k != Document {
			return Selection{}, errors.Wrapf(domainerrors.ErrBackendConfiguration, "profile %q: group %q has unknown backend %q", name, g, k)
		}
		kinds[g] = k
	}

	return Selection{Profile: name, Kinds: kinds}, nil
}
