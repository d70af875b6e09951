package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithTx(ctx, nil), "nil transaction leaves context untouched")

	sqlTx := &sql.Tx{}
	got, ok := From(WithTx(ctx, sqlTx))
	assert.True(t, ok)
	assert.Same(t, sqlTx, got)
}

func TestExecutorFromPrefersTransaction(t *testing.T) {
	db := &sql.DB{}
	sqlTx := &sql.Tx{}

	assert.Same(t, db, ExecutorFrom(context.Background(), db))
	assert.Same(t, sqlTx, ExecutorFrom(WithTx(context.Background(), sqlTx), db))
}

func TestNoopRunner(t *testing.T) {
	called := false
	err := NoopRunner{}.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	assert.ErrorIs(t, NoopRunner{}.RunInTx(context.Background(), func(context.Context) error { return boom }), boom)
}

func TestSQLRunnerReusesExistingTransaction(t *testing.T) {
	runner := NewSQLRunner(nil)
	sqlTx := &sql.Tx{}
	ctx := WithTx(context.Background(), sqlTx)

	err := runner.RunInTx(ctx, func(inner context.Context) error {
		got, ok := From(inner)
		assert.True(t, ok)
		assert.Same(t, sqlTx, got)
		return nil
	})
	assert.NoError(t, err)
}
