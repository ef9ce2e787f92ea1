package constant

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite3"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

func (d DatabaseDriver) String() string {
	return string(d)
}

type EventType string

const (
	EventVideoSaved   EventType = "saved"
	EventVideoDeleted EventType = "deleted"
)

// RoutingKey is the key events of this type are published with.
func (e EventType) RoutingKey() string {
	return "video." + string(e)
}

// Reply keyboard buttons and commands.
const (
	ButtonAddVideo    = "➕ Add video"
	ButtonDeleteVideo = "🗑 Delete video"

	CommandStart  = "start"
	CommandDelete = "del"
	CommandCancel = "cancel"
)
