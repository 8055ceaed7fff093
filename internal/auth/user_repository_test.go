package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the users schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX idx_users_email ON users(email);
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(email string, role Role) *User {
	return &User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		IsActive:     true,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("alice@example.com", RoleStudent)
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("email = %q", byID.Email)
	}
	if byID.Role != RoleStudent {
		t.Errorf("role = %q", byID.Role)
	}
	if !byID.IsActive {
		t.Error("is_active = false, want true")
	}
	if byID.CreatedAt.IsZero() {
		t.Error("created_at is zero")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("id = %d, want %d", byEmail.ID, u.ID)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("alice@example.com", RoleStudent)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, testUser("alice@example.com", RoleInstructor))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate Create error = %v, want ErrEmailExists", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("len(users) = %d, want 0", len(users))
	}

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := repo.Create(ctx, testUser(email, RoleStudent)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len(users) = %d, want 3", len(users))
	}
	if users[0].Email != "a@example.com" {
		t.Errorf("first user = %q, want insertion order", users[0].Email)
	}
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("alice@example.com", RoleStudent)
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	u.Name = "Alice Renamed"
	u.Role = RoleInstructor
	u.IsActive = false
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alice Renamed" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Role != RoleInstructor {
		t.Errorf("role = %q", got.Role)
	}
	if got.IsActive {
		t.Error("is_active = true, want false")
	}
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	ghost := testUser("ghost@example.com", RoleStudent)
	ghost.ID = 999
	if err := repo.Update(context.Background(), ghost); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Update error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("alice@example.com", RoleStudent)
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdatePassword(ctx, u.ID, "$2a$10$replacement-hash-value"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "$2a$10$replacement-hash-value" {
		t.Errorf("password_hash = %q", got.PasswordHash)
	}

	if err := repo.UpdatePassword(ctx, 999, "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("alice@example.com", RoleStudent)
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrUserNotFound", err)
	}

	if err := repo.Delete(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if err := repo.Create(ctx, testUser("alice@example.com", RoleStudent)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
