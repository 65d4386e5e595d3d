package sink

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/model"
)

// PostgresSink writes the accounting table to a Postgres database.
type PostgresSink struct {
	connString string
	pool       *pgxpool.Pool
	insertSQL  string
}

func NewPostgresSink(connString string) (*PostgresSink, error) {
	insertSQL, err := InsertStatement("postgres")
	if err != nil {
		return nil, err
	}
	return &PostgresSink{connString: connString, insertSQL: insertSQL}, nil
}

// Epoch timestamps and byte counts overflow a Postgres INTEGER.
func PostgresColumnType(t model.ColumnType) string {
	if t == model.Integer {
		return "BIGINT"
	}
	return string(t)
}

// Setup drops the accounting table if it exists and creates it again.
func (s *PostgresSink) Setup(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(s.connString)
	if err != nil {
		return errors.WithStack(&acctdberrors.ErrSchema{Op: "parse connection config", Cause: err})
	}
	// One session for the whole run.
	poolCfg.MaxConns = 1

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return errors.WithStack(&acctdberrors.ErrSchema{Op: "connect", Cause: err})
	}

	log.Infof("REPLACING TABLE:\t%s", model.AccountingTable)
	setupStmts := []string{
		"DROP TABLE IF EXISTS " + model.AccountingTable,
		CreateTableStatement(PostgresColumnType),
	}
	for _, stmt := range setupStmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return errors.WithStack(&acctdberrors.ErrSchema{Op: "create", Cause: err})
		}
	}
	s.pool = pool
	return nil
}

func (s *PostgresSink) Begin(ctx context.Context) (Tx, error) {
	if s.pool == nil {
		return nil, &acctdberrors.ErrStore{Op: "begin", Cause: errors.New("sink is not set up")}
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.WithStack(&acctdberrors.ErrStore{Op: "begin", Cause: err})
	}
	return &postgresTx{tx: tx, insertSQL: s.insertSQL}, nil
}

func (s *PostgresSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

type postgresTx struct {
	tx        pgx.Tx
	insertSQL string
}

// Insert sends all records in one round trip.
func (t *postgresTx) Insert(ctx context.Context, records []*model.AccountingRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(t.insertSQL, r.Values()...)
	}
	results := t.tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return errors.WithStack(&acctdberrors.ErrStore{Op: "insert", Cause: err})
		}
	}
	if err := results.Close(); err != nil {
		return errors.WithStack(&acctdberrors.ErrStore{Op: "insert", Cause: err})
	}
	return nil
}

func (t *postgresTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return errors.WithStack(&acctdberrors.ErrStore{Op: "commit", Cause: err})
	}
	return nil
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.WithStack(&acctdberrors.ErrStore{Op: "rollback", Cause: err})
	}
	return nil
}
