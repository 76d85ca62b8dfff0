package schema

import (
	"slices"

	"tripstore/internal/errors"
)

// ErrInvalidTable is returned by Validate.
var ErrInvalidTable = errors.New("invalid schema table")

// Validate checks a table for internal consistency: keys and derivation
// sources must be declared base attributes, derived attributes never feed
// other derivations, and index keys are base or derived attributes.
func Validate(t Table) error {
	baseAttributes := t.Attributes

	if t.Name == "" {
		return errors.Wrap(ErrInvalidTable, "table name is empty")
	}
	if t.PartitionKey.Name == "" {
		return errors.Wrapf(ErrInvalidTable, "%s: partition key is empty", t.Name)
	}

	derived := make(map[string]struct{}, len(t.Derived))
	for _, d := range t.Derived {
		if _, dup := derived[d.Attribute]; dup {
			return errors.Wrapf(ErrInvalidTable, "%s: attribute %q is derived twice", t.Name, d.Attribute)
		}
		derived[d.Attribute] = struct{}{}

		if len(d.Sources) == 0 {
			return errors.Wrapf(ErrInvalidTable, "%s: derived %q has no sources", t.Name, d.Attribute)
		}
		if n := d.Rule.arity(); n > 0 && len(d.Sources) != n {
			return errors.Wrapf(ErrInvalidTable, "%s: derived %q: rule %s takes %d sources, got %d", t.Name, d.Attribute, d.Rule, n, len(d.Sources))
		}
	}

	for _, d := range t.Derived {
		for _, src := range d.Sources {
			if _, isDerived := derived[src]; isDerived {
				return errors.Wrapf(ErrInvalidTable, "%s: derived %q reads derived %q", t.Name, d.Attribute, src)
			}
			if !slices.Contains(baseAttributes, src) {
				return errors.Wrapf(ErrInvalidTable, "%s: derived %q reads unknown attribute %q", t.Name, d.Attribute, src)
			}
		}
	}

	known := func(name string) bool {
		_, isDerived := derived[name]

		return isDerived || slices.Contains(baseAttributes, name)
	}

	for _, name := range t.KeyAttributes() {
		if !slices.Contains(baseAttributes, name) {
			return errors.Wrapf(ErrInvalidTable, "%s: primary key %q is not a base attribute", t.Name, name)
		}
	}

	seen := make(map[string]struct{}, len(t.Indexes))
	for _, idx := range t.Indexes {
		if _, dup := seen[idx.Name]; dup {
			return errors.Wrapf(ErrInvalidTable, "%s: index %q declared twice", t.Name, idx.Name)
		}
		seen[idx.Name] = struct{}{}

		keys := []Key{idx.PartitionKey}
		if idx.SortKey != nil {
			keys = append(keys, *idx.SortKey)
		}
		for _, k := range keys {
			if !known(k.Name) {
				return errors.Wrapf(ErrInvalidTable, "%s: index %q keyed on unknown attribute %q", t.Name, idx.Name, k.Name)
			}
			if k.Type != TypeString && k.Type != TypeNumber {
				return errors.Wrapf(ErrInvalidTable, "%s: index %q has bad key type %q", t.Name, idx.Name, k.Type)
			}
		}
	}

	return nil
}
