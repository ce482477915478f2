package testsupport

import (
	"context"
	"testing"

	"ineta/internal/config"
	"ineta/internal/runstore"
)

// MustOpenStore opens a runstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun creates a run for tests using the provided store.
func NewRun(t testing.TB, store *runstore.Store) *runstore.Run {
	t.Helper()

	run, err := store.CreateRun(context.Background(), runstore.NewRun{})
	if err != nil {
		t.Fatalf("store.CreateRun: %v", err)
	}
	return run
}
