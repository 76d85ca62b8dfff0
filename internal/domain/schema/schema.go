// Package schema describes how each entity is laid out in the document store:
// its primary key, the secondary indexes that replace relational joins, and
// the derived attributes those indexes are keyed on.
//
// The description is a static table per entity, kept apart from the entity
// types so it can be validated and tested on its own.
package schema

import (
	"tripstore/internal/domain/entity"
)

// AttrType is the scalar type of a key attribute.
type AttrType string

const (
	TypeString AttrType = "S"
	TypeNumber AttrType = "N"
)

// Key names one key attribute and its scalar type.
type Key struct {
	Name string
	Type AttrType
}

// Index is a global secondary index. SortKey is optional.
type Index struct {
	Name         string
	PartitionKey Key
	SortKey      *Key
}

// Derived is an attribute computed from other attributes of the same item.
// If any source is missing the attribute is removed, which leaves the item
// out of every index keyed on it.
type Derived struct {
	Attribute string
	Sources   []string
	Rule      Rule
}

// Table is the document layout of one entity.
type Table struct {
	Entity       entity.EntityType
	Name         string
	PartitionKey Key
	SortKey      *Key
	// Attributes are the base attributes an item of this table may carry.
	Attributes []string
	Derived    []Derived
	Indexes    []Index
}

// Item is a document as stored: attribute name to scalar, list or map value.
type Item map[string]any

// KeyAttributes returns the primary key attribute names, partition key first.
func (t Table) KeyAttributes() []string {
	if t.SortKey == nil {
		return []string{t.PartitionKey.Name}
	}

	return []string{t.PartitionKey.Name, t.SortKey.Name}
}

// Index returns the index with the given name.
func (t Table) Index(name string) (Index, bool) {
	for _, idx := range t.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}

	return Index{}, false
}

// IsDerived reports whether attr is computed by Refresh.
func (t Table) IsDerived(attr string) bool {
	for _, d := range t.Derived {
		if d.Attribute == attr {
			return true
		}
	}

	return false
}

// Refresh recomputes every derived attribute of item from its sources.
// It is idempotent: derived attributes never feed other derivations.
func (t Table) Refresh(item Item) {
	for _, d := range t.Derived {
		values := make([]any, len(d.Sources))
		for i, src := range d.Sources {
			values[i] = item[src]
		}

		if v, ok := d.Rule.derive(values); ok {
			item[d.Attribute] = v
		} else {
			delete(item, d.Attribute)
		}
	}
}

// MissingIndexKeys lists the indexes the item does not participate in,
// i.e. indexes with a key attribute absent from the item.
func (t Table) MissingIndexKeys(item Item) []string {
	var missing []string
	for _, idx := range t.Indexes {
		if !present(item[idx.PartitionKey.Name]) || (idx.SortKey != nil && !present(item[idx.SortKey.Name])) {
			missing = append(missing, idx.Name)
		}
	}

	return missing
}

func present(v any) bool {
	_, ok := scalarString(v)

	return ok
}
