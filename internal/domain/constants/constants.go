package constants

// Environments
const (
	EnvDevelop = "develop"
	EnvLocal   = "local"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Operator role required by the admin API
const RoleOperator = "operator"

// Docstore URL placeholders, replaced by the collection name and its key field
const (
	CollectionPlaceholder = "{collection}"
	KeyPlaceholder        = "{key}"
)
