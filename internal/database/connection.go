// connection.go
//
// NuTraDaily, a nutrition and daily activity tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of nutradaily.
// nutradaily is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// nutradaily is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with nutradaily.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/glebarez/sqlite"
	gosqlmysql "github.com/go-sql-driver/mysql"
	"github.com/localnerve/nutradaily/internal/config"
	"github.com/localnerve/nutradaily/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector selects the gorm dialector for the configured DB_TYPE
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql", "mariadb":
		dsn := gosqlmysql.Config{
			User:                 cfg.DBUser,
			Passwd:               cfg.DBPassword,
			Net:                  "tcp",
			Addr:                 net.JoinHostPort(cfg.DBHost, cfg.DBPort),
			DBName:               cfg.DBDatabase,
			ParseTime:            true,
			AllowNativePasswords: true,
			Params:               map[string]string{"charset": "utf8mb4"},
		}
		return mysql.Open(dsn.FormatDSN()), nil

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBDatabase,
			cfg.DBPort,
		)
		return postgres.Open(dsn), nil

	case "sqlite":
		// Pure Go driver, DBDatabase is the file path
		return sqlite.Open(cfg.DBDatabase), nil

	case "sqlite3":
		// cgo driver, for hosts that already ship libsqlite3
		return cgosqlite.Open(cfg.DBDatabase), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBDatabase,
		)
		return sqlserver.Open(dsn), nil
	}

	return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
}

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.DBConnectionLimit)
	sqlDB.SetMaxIdleConns(max(cfg.DBConnectionLimit/2, 1))

	log.Printf("Connected to %s database: %s", cfg.DBType, cfg.DBDatabase)

	return db, nil
}

// emailKeys are the columns holding an email as (part of) a primary key
var emailKeys = [][2]string{
	{"users", "email"},
	{"activity_events", "user_email"},
}

// AutoMigrate creates the tables for all models.
// Emails are compared byte for byte, so on MySQL and MariaDB the tables are created
// with a binary collation, and an existing key column that ignores case is an error.
func AutoMigrate(db *gorm.DB) error {
	migrator := db
	if db.Dialector.Name() == "mysql" {
		collation, err := mysqlCollation(db)
		if err != nil {
			return err
		}
		migrator = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE="+collation)
	}

	if err := migrator.AutoMigrate(
		&models.User{},
		&models.ActivityEvent{},
		&models.ProgressEntry{},
	); err != nil {
		return err
	}

	return checkEmailKeys(db)
}

// mysqlCollation picks a binary collation that also keeps trailing spaces
func mysqlCollation(db *gorm.DB) (string, error) {
	var version string
	if err := db.Raw("SELECT VERSION()").Scan(&version).Error; err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return binaryCollation(version), nil
}

func binaryCollation(version string) string {
	switch {
	case strings.Contains(strings.ToLower(version), "mariadb"):
		return "utf8mb4_nopad_bin"
	case strings.HasPrefix(version, "5."):
		return "utf8mb4_bin"
	}
	return "utf8mb4_0900_bin"
}

// checkEmailKeys fails when an email key column compares case-insensitively.
// SQL Server has no table level collation: create its database with a _CS_ collation.
func checkEmailKeys(db *gorm.DB) error {
	var query string
	switch db.Dialector.Name() {
	case "mysql":
		query = "SELECT COLLATION_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?"
	case "sqlserver":
		query = "SELECT collation_name FROM sys.columns WHERE object_id = OBJECT_ID(?) AND name = ?"
	default:
		return nil
	}

	for _, key := range emailKeys {
		var collation string
		if err := db.Raw(query, key[0], key[1]).Scan(&collation).Error; err != nil {
			return fmt.Errorf("failed to read collation of %s.%s: %w", key[0], key[1], err)
		}
		if ignoresCase(collation) {
			return fmt.Errorf("%s.%s uses the case-insensitive collation %s; emails are case-sensitive", key[0], key[1], collation)
		}
	}
	return nil
}

func ignoresCase(collation string) bool {
	c := strings.ToLower(collation)
	return strings.HasSuffix(c, "_ci") || strings.Contains(c, "_ci_")
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(name string) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}
