package backend

// MigrationCapability describes which migration directions the deployment can run.
type MigrationCapability string

const (
	BidirectionalSupported MigrationCapability = "bidirectional_supported"
	RelationalOnly         MigrationCapability = "relational_only"
	DocumentOnly           MigrationCapability = "document_only"
	NotSupported           MigrationCapability = "not_supported"
)

// Direction is the direction of a migration run.
type Direction string

const (
	RelationalToDocument Direction = "relational_to_document"
	DocumentToRelational Direction = "document_to_relational"
)

// Source returns the backend read by the direction.
func (d Direction) Source() Kind {
	if d == DocumentToRelational {
		return Document
	}

	return Relational
}

// Target returns the backend written by the direction.
func (d Direction) Target() Kind {
	return d.Source().Opposite()
}

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == RelationalToDocument || d == DocumentToRelational
}

// CapabilityOf reports the migration capability given which backends are configured.
func CapabilityOf(relational, document bool) MigrationCapability {
	switch {
	case relational && document:
		return BidirectionalSupported
	case relational:
		return RelationalOnly
	case document:
		return DocumentOnly
	}

	return NotSupported
}

// MigrationCapability reports which directions this registry can run.
func (r *Registry) MigrationCapability() MigrationCapability {
	return CapabilityOf(r.Configured(Relational), r.Configured(Document))
}

// CanMigrate reports whether both ends of the direction are configured.
func (r *Registry) CanMigrate(d Direction) bool {
	return d.IsValid() && r.Configured(d.Source()) && r.Configured(d.Target())
}
