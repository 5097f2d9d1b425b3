package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL instance
// at localhost:3306 with a database named 'brewline_test'; skips the test
// when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/brewline_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"orders", "menu_items"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the two collections backing the feed.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		ownerId VARCHAR(64) NOT NULL,
		customerName VARCHAR(100) NOT NULL,
		items JSON NOT NULL,
		pickupTime VARCHAR(20) NOT NULL,
		paymentAmount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		status VARCHAR(40) NOT NULL,
		paymentStatus VARCHAR(30) NOT NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_owner (ownerId),
		INDEX idx_status (status)
	)`

	createMenuTable := `
	CREATE TABLE IF NOT EXISTS menu_items (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		category VARCHAR(100) NOT NULL DEFAULT '',
		name VARCHAR(100) NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		options JSON NOT NULL
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"orders", createOrdersTable},
		{"menu_items", createMenuTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Fatalf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
