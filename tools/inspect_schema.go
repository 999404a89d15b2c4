package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/localnerve/nutradaily/internal/database"
	"github.com/localnerve/nutradaily/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// Get the schema
	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}

	// And the matching CSV headers
	headers := []struct {
		file   string
		header []string
	}{
		{store.UsersFile, store.UserCodec{}.Header()},
		{store.ActivityFile, store.ActivityCodec{}.Header()},
		{store.ProgressFile, store.ProgressCodec{}.Header()},
	}
	for _, h := range headers {
		fmt.Printf("\n=== CSV: %s ===\n%s\n", h.file, strings.Join(h.header, ","))
	}
}
