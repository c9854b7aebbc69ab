// Package devgateway is an in-process double of the production POS backend.
// It serves the same REST surface the terminal client consumes, backed by
// gorm over an in-memory sqlite database (or postgres when DATABASE_URL is
// set). It exists for local development (`pos-terminal -dev`) and the
// integration tests; it is not a production server and its credential
// handling is deliberately naive.
package devgateway

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rehhab/pos-terminal/models"
)

// OpenDatabase connects to the dev gateway's database. An empty databaseURL
// selects an in-memory sqlite store, which is what tests and -dev runs use.
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if databaseURL == "" {
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	} else {
		log.Printf("Dev gateway using postgres database")
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Table{}, &models.Order{}, &models.LineItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Seed populates the database with a usable demo dataset: an admin, a
// waiter, a handful of products, and free tables. Idempotent enough for
// repeated -dev runs against a persistent database.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := []models.User{
		{Username: "admin", Password: "admin", Role: models.RoleAdmin},
		{Username: "waiter", Password: "waiter", Role: models.RoleWaiter},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Margherita Pizza", Category: "Mains", Price: decimal.NewFromFloat(9.50), Enabled: true},
		{Name: "Carbonara", Category: "Mains", Price: decimal.NewFromFloat(11.00), Enabled: true},
		{Name: "Caesar Salad", Category: "Starters", Price: decimal.NewFromFloat(6.75), Enabled: true},
		{Name: "Tiramisu", Category: "Desserts", Price: decimal.NewFromFloat(5.25), Enabled: true},
		{Name: "Espresso", Category: "Drinks", Price: decimal.NewFromFloat(2.00), Enabled: true},
		{Name: "House Red (glass)", Category: "Drinks", Price: decimal.NewFromFloat(4.50), Enabled: true},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	tables := make([]models.Table, 0, 8)
	for n := 1; n <= 8; n++ {
		tables = append(tables, models.Table{Number: n, Capacity: 4, Status: models.StatusFree})
	}
	return db.Create(&tables).Error
}
