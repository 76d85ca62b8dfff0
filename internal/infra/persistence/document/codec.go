package document

import (
	"maps"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"

	"github.com/go-viper/mapstructure/v2"
)

// Items are written by hand so absent values never reach an index: empty
// strings, nil pointers and empty lists are omitted rather than stored.

func putString(item schema.Item, key, v string) {
	if v != "" {
		item[key] = v
	}
}

func putTime(item schema.Item, key string, t time.Time) {
	if !t.IsZero() {
		item[key] = t.UTC().Format(time.RFC3339Nano)
	}
}

func putTimePtr(item schema.Item, key string, t *time.Time) {
	if t != nil {
		putTime(item, key, *t)
	}
}

func putFloatPtr(item schema.Item, key string, v *float64) {
	if v != nil {
		item[key] = *v
	}
}

func putStrings(item schema.Item, key string, v []string) {
	if len(v) == 0 {
		return
	}
	list := make([]any, len(v))
	for i, s := range v {
		list[i] = s
	}
	item[key] = list
}

func putStringMap(item schema.Item, key string, v map[string]string) {
	if len(v) == 0 {
		return
	}
	m := make(map[string]any, len(v))
	for k, s := range v {
		m[k] = s
	}
	item[key] = m
}

func putAudit(item schema.Item, a entity.Audit) {
	putTime(item, "createdAt", a.CreatedAt)
	putTime(item, "updatedAt", a.UpdatedAt)
	item["version"] = a.Version
	item[schema.AttrDeleted] = a.Deleted
	putTimePtr(item, "deletedAt", a.DeletedAt)
}

// auditDoc is the decoded form of the audit attributes, squashed into every doc.
type auditDoc struct {
	CreatedAt time.Time  `mapstructure:"createdAt"`
	UpdatedAt time.Time  `mapstructure:"updatedAt"`
	Version   int64      `mapstructure:"version"`
	Deleted   bool       `mapstructure:"deleted"`
	DeletedAt *time.Time `mapstructure:"deletedAt"`
}

func (a auditDoc) toAudit() entity.Audit {
	return entity.Audit{
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
		Version:   a.Version,
		Deleted:   a.Deleted,
		DeletedAt: entity.NormalizeTimePtr(a.DeletedAt),
	}
}

// decodeInto decodes a stored item into out. Attributes out does not declare,
// such as derived keys or the store's revision field, are ignored.
func decodeInto(item map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return errors.Wrap(err, "failed to build decoder")
	}

	if err := decoder.Decode(maps.Clone(item)); err != nil {
		return errors.Wrap(err, "failed to decode item")
	}

	return nil
}

func idOfItem(item map[string]any) string {
	id, _ := item[schema.AttrID].(string)

	return id
}
