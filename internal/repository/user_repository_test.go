package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"testing"
	"time"

	"stock-ledger/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Apply the real schema
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not terminate postgres container: %v", err)
		}
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"transactions", "products", "users"} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

func TestUserCreateAndFind(t *testing.T) {
	cleanupTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := &domain.User{Name: "Alice", Email: "alice@example.com"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected generated ID to be set")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Alice" || found.Email != "alice@example.com" {
		t.Errorf("Retrieved user does not match: %+v", found)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	cleanupTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Name: "Alice", Email: "dup@example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := repo.Create(ctx, &domain.User{Name: "Bob", Email: "dup@example.com"})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("Expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	cleanupTables(t)
	repo := NewUserRepository(testDB)

	err := repo.Update(context.Background(), &domain.User{ID: 424242, Name: "Ghost", Email: "ghost@example.com"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserFindByID_NotFound(t *testing.T) {
	cleanupTables(t)
	repo := NewUserRepository(testDB)

	_, err := repo.FindByID(context.Background(), 424242)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestProperty_UserCreationPreservesAttributes(t *testing.T) {
	cleanupTables(t)
	repo := NewUserRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a user preserves name and email", prop.ForAll(
		func(name string, email string) bool {
			ctx := context.Background()

			user := &domain.User{Name: name, Email: email}
			if err := repo.Create(ctx, user); err != nil {
				// Duplicate emails from the generator are not a failure
				if errors.Is(err, ErrUserAlreadyExists) {
					return true
				}
				t.Logf("FAIL: Create failed: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, user.ID)
			if err != nil {
				t.Logf("FAIL: FindByID failed: %v", err)
				return false
			}

			ok := retrieved.Name == name && retrieved.Email == email

			// Cleanup
			_, _ = testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)

			return ok
		},
		gen.RegexMatch(`[A-Z][a-z]{2,12} [A-Z][a-z]{2,12}`),
		gen.RegexMatch(`[a-z]{3,12}@[a-z]{3,8}\.(com|org|net)`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
