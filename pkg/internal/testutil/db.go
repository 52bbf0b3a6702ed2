package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/smith3v/lingochat/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory sqlite database and migrates it.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *db.Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})

	return db.NewRepository(gdb)
}

// SeedConversation creates a user and a conversation owned by it.
func SeedConversation(t *testing.T, repo *db.Repository, username, name, language string) (*db.User, *db.Conversation) {
	t.Helper()
	user := &db.User{Username: username, Name: username, PasswordHash: "x"}
	if err := repo.CreateUser(t.Context(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	conv := &db.Conversation{Name: name, UserID: user.ID, Language: language}
	if err := repo.CreateConversation(t.Context(), conv); err != nil {
		t.Fatalf("failed to seed conversation: %v", err)
	}
	return user, conv
}
