package utils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"lms/config"
	"lms/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB wires an isolated in-memory database into the global
// instance the package reads from
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		Port:               "3000",
		JWTKey:             "test-secret",
		Currency:           "USD",
		StripeApiURL:       "http://stripe.invalid/v1",
		EmailSender:        "no-reply@test.local",
		EmailName:          "Test",
		FrontendURL:        "http://localhost:5173",
		UploadDir:          t.TempDir(),
		PremiumPriceFactor: 1.5,
	}

	return db
}
