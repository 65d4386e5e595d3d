package acctdb

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/acctdb/internal/acctdb/model"
	"github.com/G-Research/acctdb/internal/acctdb/sink"
)

type fakeTx struct {
	parent     *fakeSink
	batches    []int
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Insert(_ context.Context, records []*model.AccountingRecord) error {
	if tx.parent.insertErr != nil {
		return tx.parent.insertErr
	}
	tx.batches = append(tx.batches, len(records))
	return nil
}

func (tx *fakeTx) Commit(_ context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(_ context.Context) error {
	tx.rolledBack = true
	return nil
}

type fakeSink struct {
	txs       []*fakeTx
	insertErr error
	closed    bool
}

func (s *fakeSink) Setup(_ context.Context) error { return nil }

func (s *fakeSink) Begin(_ context.Context) (sink.Tx, error) {
	tx := &fakeTx{parent: s}
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func addRecords(t *testing.T, l *Loader, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Add(context.Background(), &model.AccountingRecord{Owner: "alice", JobNumber: int64(i)}))
	}
}

func TestLoader_BatchesWithinFile(t *testing.T) {
	ctx := context.Background()
	s := &fakeSink{}
	l := NewLoader(s, 3)

	require.NoError(t, l.BeginFile(ctx))
	addRecords(t, l, 7)
	loaded, err := l.CommitFile(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, loaded)
	require.Len(t, s.txs, 1)
	assert.Equal(t, []int{3, 3, 1}, s.txs[0].batches)
	assert.True(t, s.txs[0].committed)
}

func TestLoader_TransactionPerFile(t *testing.T) {
	ctx := context.Background()
	s := &fakeSink{}
	l := NewLoader(s, 10)

	require.NoError(t, l.BeginFile(ctx))
	addRecords(t, l, 2)
	loaded, err := l.CommitFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	require.NoError(t, l.BeginFile(ctx))
	addRecords(t, l, 4)
	require.NoError(t, l.Abort(ctx))

	require.Len(t, s.txs, 2)
	assert.True(t, s.txs[0].committed)
	assert.False(t, s.txs[0].rolledBack)
	assert.True(t, s.txs[1].rolledBack)
	assert.False(t, s.txs[1].committed)
}

func TestLoader_EmptyFileCommitsNothing(t *testing.T) {
	ctx := context.Background()
	s := &fakeSink{}
	l := NewLoader(s, 5)

	require.NoError(t, l.BeginFile(ctx))
	loaded, err := l.CommitFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded)
	assert.Empty(t, s.txs[0].batches)
}

func TestLoader_InvalidBatchSizeFallsBackToOne(t *testing.T) {
	ctx := context.Background()
	s := &fakeSink{}
	l := NewLoader(s, 0)

	require.NoError(t, l.BeginFile(ctx))
	addRecords(t, l, 2)
	_, err := l.CommitFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, s.txs[0].batches)
}

func TestLoader_InsertErrorSurfaces(t *testing.T) {
	ctx := context.Background()
	s := &fakeSink{insertErr: errors.New("disk full")}
	l := NewLoader(s, 1)

	require.NoError(t, l.BeginFile(ctx))
	err := l.Add(ctx, &model.AccountingRecord{})
	assert.EqualError(t, err, "disk full")
	require.NoError(t, l.Abort(ctx))
	assert.True(t, s.txs[0].rolledBack)
}

func TestLoader_OutOfOrderCalls(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(&fakeSink{}, 1)

	assert.Error(t, l.Add(ctx, &model.AccountingRecord{}))
	_, err := l.CommitFile(ctx)
	assert.Error(t, err)
	assert.NoError(t, l.Abort(ctx))

	require.NoError(t, l.BeginFile(ctx))
	assert.Error(t, l.BeginFile(ctx))
}
