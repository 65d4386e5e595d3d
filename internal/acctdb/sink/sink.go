package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/pkg/errors"

	"github.com/G-Research/acctdb/internal/acctdb/configuration"
	"github.com/G-Research/acctdb/internal/acctdb/model"
)

// Sink is a destination store for one ingestion run.
type Sink interface {
	// Setup destructively recreates the accounting table. Any previous contents are lost.
	Setup(ctx context.Context) error
	// Begin starts a transaction; rows written through it become visible on Commit only.
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx writes accounting records inside a single transaction.
type Tx interface {
	Insert(ctx context.Context, records []*model.AccountingRecord) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// New returns the sink selected by config.DatabaseType.
func New(config *configuration.IngestConfiguration) (Sink, error) {
	switch config.DatabaseType {
	case configuration.DatabaseTypeSQLite:
		return NewSQLiteSink(config.Database)
	case configuration.DatabaseTypePostgres:
		return NewPostgresSink(config.Database)
	default:
		return nil, errors.Errorf("unsupported database type %q", config.DatabaseType)
	}
}

// CreateTableStatement returns the DDL for the accounting table. typeName maps a column
// type onto the dialect's type name.
func CreateTableStatement(typeName func(model.ColumnType) string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", model.AccountingTable))
	for i, c := range model.Columns {
		sb.WriteString(fmt.Sprintf("\t%s %s", c.Name, typeName(c.Type)))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if i < len(model.Columns)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(")")
	return sb.String()
}

// InsertStatement builds a parameterized insert of one accounting row for the given goqu
// dialect. Values must be bound in model.Columns order.
func InsertStatement(dialect string) (string, error) {
	cols := make([]interface{}, len(model.Columns))
	row := make([]interface{}, len(model.Columns))
	for i, c := range model.Columns {
		cols[i] = c.Name
		// Placeholder values only; prepared mode turns each into a bind parameter.
		if c.Type == model.Text {
			row[i] = ""
		} else {
			row[i] = int64(0)
		}
	}
	sql, _, err := goqu.Dialect(dialect).
		Insert(model.AccountingTable).
		Prepared(true).
		Cols(cols...).
		Vals(row).
		ToSQL()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return sql, nil
}
