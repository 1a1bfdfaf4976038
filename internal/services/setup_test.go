package services

import (
	"io"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/awu/foodlog/internal/db"
	"github.com/awu/foodlog/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	conn, err := gorm.Open(sqlite.Open("file:svc_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// fakeStore records blob operations so tests can assert on cleanup behavior.
type fakeStore struct {
	deleted   []string
	deleteErr error
}

func (f *fakeStore) Save(name string, _ io.Reader) (string, error) { return "stored-" + name, nil }

func (f *fakeStore) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return f.deleteErr
}

func mustCreateUser(t *testing.T, accounts *Accounts, username, email, password string) *models.User {
	t.Helper()
	u, err := accounts.Create(username, email, password)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}
