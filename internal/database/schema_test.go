package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	// Check if migrations directory exists
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_products_table.sql",
		"00003_create_transactions_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"users":        "00001_create_users_table.sql",
		"products":     "00002_create_products_table.sql",
		"transactions": "00003_create_transactions_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		createTableStmt := "CREATE TABLE IF NOT EXISTS " + tableName
		if !strings.Contains(contentStr, createTableStmt) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		dropTableStmt := "DROP TABLE IF EXISTS " + tableName
		if !strings.Contains(contentStr, dropTableStmt) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestUsersTableHasUniqueEmail(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00001_create_users_table.sql")
	if err != nil {
		t.Fatalf("Failed to read users migration: %v", err)
	}

	if !strings.Contains(string(content), "email VARCHAR(255) UNIQUE NOT NULL") {
		t.Error("Users table missing unique email column")
	}
}

func TestProductsTableEnforcesInvariants(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00002_create_products_table.sql")
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)

	// Non-negative stock and a closed status set are enforced at the
	// schema level as a last line of defense
	if !strings.Contains(contentStr, "CHECK (quantity >= 0)") {
		t.Error("Products table missing non-negative quantity check")
	}
	if !strings.Contains(contentStr, "CHECK (price >= 0)") {
		t.Error("Products table missing non-negative price check")
	}
	for _, status := range []string{"FOR_SALE", "OUT_OF_STOCK"} {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Products table status constraint missing value: %s", status)
		}
	}
	if !strings.Contains(contentStr, "name VARCHAR(255) UNIQUE NOT NULL") {
		t.Error("Products table missing unique name column")
	}
}

func TestTransactionsTableHasForeignKeys(t *testing.T) {
	content, err := os.ReadFile("../../migrations/00003_create_transactions_table.sql")
	if err != nil {
		t.Fatalf("Failed to read transactions migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "FOREIGN KEY (user_id) REFERENCES users(id)") {
		t.Error("Transactions table missing foreign key to users")
	}
	if !strings.Contains(contentStr, "FOREIGN KEY (product_id) REFERENCES products(id)") {
		t.Error("Transactions table missing foreign key to products")
	}
	if !strings.Contains(contentStr, "CHECK (quantity > 0)") {
		t.Error("Transactions table missing positive quantity check")
	}
}
