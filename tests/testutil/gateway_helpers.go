package testutil

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehhab/pos-terminal/devgateway"
	"github.com/rehhab/pos-terminal/gateway"
	"github.com/rehhab/pos-terminal/models"
)

// TestJWTSecret signs tokens for the in-process dev gateway during tests
const TestJWTSecret = "integration-test-secret"

// StartDevGateway boots a seeded dev gateway over a throwaway sqlite
// database on an ephemeral listener. The server and database are torn down
// with the test.
func StartDevGateway(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pos.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Table{}, &models.Order{}, &models.LineItem{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := devgateway.Seed(db); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	server := httptest.NewServer(devgateway.NewServer(db, TestJWTSecret).Router())
	t.Cleanup(func() {
		server.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return server, db
}

// LoginClient creates a gateway client against baseURL and logs it in
func LoginClient(t *testing.T, baseURL, username, password string) *gateway.Client {
	t.Helper()

	client := gateway.New(baseURL)
	if _, err := client.Login(context.Background(), username, password); err != nil {
		t.Fatalf("Failed to log in as %s: %v", username, err)
	}
	return client
}
