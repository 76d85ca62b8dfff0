package entity

import "github.com/pkg/errors"

// ErrInvalidEntity is returned when an entity fails field validation.
var ErrInvalidEntity = errors.New("invalid entity")

func missingField(name string) error {
	return errors.Wrapf(ErrInvalidEntity, "required field %s is missing", name)
}

func invalidField(name, reason string) error {
	return errors.Wrapf(ErrInvalidEntity, "field %s is invalid: %s", name, reason)
}
