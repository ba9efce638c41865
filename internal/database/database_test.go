package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestConfigurePool(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	configurePool(sqlDB)

	if got := sqlDB.Stats().MaxOpenConnections; got != 25 {
		t.Errorf("MaxOpenConnections = %d, want 25", got)
	}
}
