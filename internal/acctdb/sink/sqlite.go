package sink

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/model"
)

// Files SQLite may leave next to a database; a stale journal must not be replayed into
// the new database.
var sqliteSidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// SQLiteSink writes the accounting table to a SQLite database file.
type SQLiteSink struct {
	path      string
	db        *sql.DB
	insertSQL string
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	insertSQL, err := InsertStatement("sqlite3")
	if err != nil {
		return nil, err
	}
	return &SQLiteSink{path: path, insertSQL: insertSQL}, nil
}

func SQLiteColumnType(t model.ColumnType) string {
	return string(t)
}

// Setup deletes the database file if it exists and creates a new one holding an empty
// accounting table. A single connection is used for the rest of the run.
func (s *SQLiteSink) Setup(ctx context.Context) error {
	if s.db != nil {
		return &acctdberrors.ErrSchema{Path: s.path, Op: "setup", Cause: errors.New("sink already set up")}
	}

	existed, err := removeDatabase(s.path)
	if err != nil {
		return errors.WithStack(&acctdberrors.ErrSchema{Path: s.path, Op: "remove", Cause: err})
	}
	if existed {
		log.Infof("REPLACING DATABASE:\t%s", s.path)
	} else {
		log.Infof("CREATING DATABASE:\t%s", s.path)
	}

	dbDir := filepath.Dir(s.path)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return errors.WithStack(&acctdberrors.ErrSchema{Path: s.path, Op: "create directory", Cause: err})
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.WithStack(&acctdberrors.ErrSchema{Path: s.path, Op: "open", Cause: err})
	}
	// SQLite only allows one writer at a time; keep the whole run on one connection.
	db.SetMaxOpenConns(1)

	setupStmts := []string{
		"DROP TABLE IF EXISTS " + model.AccountingTable,
		CreateTableStatement(SQLiteColumnType),
	}
	for _, stmt := range setupStmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return errors.WithStack(&acctdberrors.ErrSchema{Path: s.path, Op: "create", Cause: err})
		}
	}
	s.db = db
	return nil
}

func removeDatabase(path string) (bool, error) {
	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	} else if !os.IsNotExist(err) {
		return false, err
	}
	for _, p := range append([]string{path}, sidecars(path)...) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return existed, err
		}
	}
	return existed, nil
}

func sidecars(path string) []string {
	paths := make([]string, len(sqliteSidecarSuffixes))
	for i, suffix := range sqliteSidecarSuffixes {
		paths[i] = path + suffix
	}
	return paths
}

func (s *SQLiteSink) Begin(ctx context.Context) (Tx, error) {
	if s.db == nil {
		return nil, &acctdberrors.ErrStore{Op: "begin", Cause: errors.New("sink is not set up")}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.WithStack(&acctdberrors.ErrStore{Op: "begin", Cause: err})
	}
	stmt, err := tx.PrepareContext(ctx, s.insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return nil, errors.WithStack(&acctdberrors.ErrStore{Op: "prepare", Cause: err})
	}
	return &sqliteTx{tx: tx, stmt: stmt}, nil
}

func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return errors.WithStack(err)
}

type sqliteTx struct {
	tx   *sql.Tx
	stmt *sql.Stmt
}

func (t *sqliteTx) Insert(ctx context.Context, records []*model.AccountingRecord) error {
	for _, r := range records {
		if _, err := t.stmt.ExecContext(ctx, r.Values()...); err != nil {
			return errors.WithStack(&acctdberrors.ErrStore{Op: "insert", Cause: err})
		}
	}
	return nil
}

func (t *sqliteTx) Commit(ctx context.Context) error {
	_ = t.stmt.Close()
	if err := t.tx.Commit(); err != nil {
		return errors.WithStack(&acctdberrors.ErrStore{Op: "commit", Cause: err})
	}
	return nil
}

func (t *sqliteTx) Rollback(ctx context.Context) error {
	_ = t.stmt.Close()
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return errors.WithStack(&acctdberrors.ErrStore{Op: "rollback", Cause: err})
	}
	return nil
}
