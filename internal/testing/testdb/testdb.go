// Package testdb opens isolated, migrated and seeded databases for tests.
//
// Every call to New gets its own named in-memory SQLite database, so tests
// never observe each other's rows:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    players, err := tdb.Store.ListPlayers(tdb.Context(), filter.Players{Page: filter.DefaultPage()})
//	}
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/swc/internal/adapters/repository"
	"github.com/okian/swc/internal/testing/fixtures"
)

const contextTimeout = 30 * time.Second

// TestDB is a seeded store bound to one test.
type TestDB struct {
	Store   *repository.GormStore
	Dataset fixtures.Dataset
	DSN     string
	t       testing.TB
}

// New opens a database seeded with fixtures.Default. It is closed on cleanup.
func New(t testing.TB) *TestDB {
	t.Helper()
	tdb := NewEmpty(t)
	tdb.Dataset = fixtures.Default()
	if err := fixtures.Load(tdb.Context(), tdb.Store.DB(), tdb.Dataset); err != nil {
		t.Fatalf("testdb: seed: %v", err)
	}
	return tdb
}

// NewEmpty opens a migrated database with no rows.
func NewEmpty(t testing.TB) *TestDB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	ctx, cancel := context.WithTimeout(context.Background(), contextTimeout)
	defer cancel()

	store, err := repository.Open(ctx, repository.DriverSQLite, dsn, repository.WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("testdb: migrate: %v", err)
	}
	tdb := &TestDB{Store: store, DSN: dsn, t: t}
	t.Cleanup(func() { _ = store.Close() })
	return tdb
}

// Context returns a context that expires with the test or after 30 seconds.
func (db *TestDB) Context() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), contextTimeout)
	db.t.Cleanup(cancel)
	return ctx
}
