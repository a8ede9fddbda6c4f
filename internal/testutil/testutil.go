// Package testutil provides in-memory stores for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/pkg/database"
)

// NewDB opens a migrated in-memory sqlite database. A single connection keeps
// every query on the same in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewRedis starts a miniredis server and returns a client bound to it.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// SeedUsers inserts users named <prefix>0..<prefix>n-1.
func SeedUsers(t testing.TB, db *gorm.DB, prefix string, n int) []model.User {
	t.Helper()
	users := make([]model.User, n)
	for i := range users {
		name := fmt.Sprintf("%s%d", prefix, i)
		users[i] = model.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return users
}
