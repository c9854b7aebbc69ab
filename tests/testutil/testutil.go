// Package testutil holds shared helpers for the integration tests: the
// test-environment guard and a harness that boots a seeded dev gateway on an
// ephemeral HTTP listener.
package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment ensures that tests are running in the test
// environment. The dev gateway will happily connect to whatever DATABASE_URL
// points at, so this guard prevents accidental runs against a development or
// production database. It fails the test immediately if GO_ENV is not "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}
