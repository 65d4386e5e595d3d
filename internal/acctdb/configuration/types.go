package configuration

const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypePostgres = "postgres"
)

type IngestConfiguration struct {
	// Gzip-compressed accounting files, ingested in the given order
	Accounting []string `mapstructure:"accounting" validate:"required,min=1,dive,required"`
	// Destination of the accounting table. For 'sqlite' this is a file path that is deleted
	// and recreated on every run; for 'postgres' it is a connection string.
	Database string `mapstructure:"database" validate:"required"`
	// Exact-match owner allow-list. An empty list loads no records.
	Owner []string `mapstructure:"owner"`
	// Type of database used - must be either 'sqlite' or 'postgres'
	DatabaseType string `mapstructure:"databaseType" validate:"oneof=sqlite postgres"`
	// Number of records written per insert batch inside a file's transaction
	InsertBatchSize int `mapstructure:"insertBatchSize" validate:"min=1"`
	// Version of the accounting field layout, e.g. "sge-8.1"
	FieldLayout string `mapstructure:"fieldLayout"`
	// If set, run metrics are written to this file in prometheus text format
	MetricsTextfile string `mapstructure:"metricsTextfile"`
}
