package acctdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/G-Research/acctdb/internal/acctdb/model"
	"github.com/G-Research/acctdb/internal/acctdb/sink"
)

// Loader writes accepted records to a sink. Every source file gets its own transaction;
// within it records are buffered and inserted batchSize at a time.
type Loader struct {
	sink      sink.Sink
	batchSize int
	tx        sink.Tx
	buffer    []*model.AccountingRecord
	pending   int
}

func NewLoader(s sink.Sink, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Loader{sink: s, batchSize: batchSize}
}

// BeginFile opens the transaction for the next source file.
func (l *Loader) BeginFile(ctx context.Context) error {
	if l.tx != nil {
		return errors.New("previous file has not been committed or aborted")
	}
	tx, err := l.sink.Begin(ctx)
	if err != nil {
		return err
	}
	l.tx = tx
	l.buffer = make([]*model.AccountingRecord, 0, l.batchSize)
	l.pending = 0
	return nil
}

// Add queues a record, inserting the buffered batch once it is full.
func (l *Loader) Add(ctx context.Context, record *model.AccountingRecord) error {
	if l.tx == nil {
		return errors.New("no file transaction in progress")
	}
	l.buffer = append(l.buffer, record)
	if len(l.buffer) >= l.batchSize {
		return l.flush(ctx)
	}
	return nil
}

func (l *Loader) flush(ctx context.Context) error {
	if len(l.buffer) == 0 {
		return nil
	}
	if err := l.tx.Insert(ctx, l.buffer); err != nil {
		return err
	}
	l.pending += len(l.buffer)
	l.buffer = l.buffer[:0]
	return nil
}

// CommitFile inserts whatever is still buffered and commits the file's transaction.
// It returns the number of rows made visible by the commit.
func (l *Loader) CommitFile(ctx context.Context) (int, error) {
	if l.tx == nil {
		return 0, errors.New("no file transaction in progress")
	}
	if err := l.flush(ctx); err != nil {
		return 0, err
	}
	tx := l.tx
	l.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	committed := l.pending
	l.pending = 0
	return committed, nil
}

// Abort discards the current file's transaction, if any. Rows of files committed earlier
// are unaffected.
func (l *Loader) Abort(ctx context.Context) error {
	if l.tx == nil {
		return nil
	}
	tx := l.tx
	l.tx = nil
	l.buffer = nil
	l.pending = 0
	return tx.Rollback(ctx)
}
