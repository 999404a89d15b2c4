// This file starts a throwaway database server with testcontainers.
// It is used by the integration tests and by cmd/testcontainers to run the server against a real database.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/nutradaily/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseContainer is a running database server and the credentials it was created with
type DatabaseContainer struct {
	Container testcontainers.Container
	DBType    string
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
}

// Config returns a database backend configuration pointing at the container
func (dc *DatabaseContainer) Config() *config.Config {
	return &config.Config{
		Port:              "3000",
		StoreBackend:      config.BackendDatabase,
		DBType:            dc.DBType,
		DBHost:            dc.Host,
		DBPort:            dc.Port,
		DBDatabase:        dc.Database,
		DBUser:            dc.User,
		DBPassword:        dc.Password,
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		SessionSecret:     "testcontainers-secret",
		SessionTTL:        time.Hour,
		BcryptCost:        4,
	}
}

// Terminate stops and removes the container
func (dc *DatabaseContainer) Terminate(t *testing.T) {
	if dc == nil || dc.Container == nil {
		return
	}
	if err := dc.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate %s: %v", dc.DBType, err)
	}
}

// StartDatabase starts image as a dbType (mariadb, mysql or postgres) server.
// DB_DATABASE, DB_USER, DB_PASSWORD and DB_ROOT_PASSWORD override the default credentials.
func StartDatabase(t *testing.T, dbType, image string) (*DatabaseContainer, error) {
	ctx := context.Background()

	dc := &DatabaseContainer{
		DBType:   dbType,
		Database: getEnv("DB_DATABASE", "nutradaily"),
		User:     getEnv("DB_USER", "nutradaily"),
		Password: getEnv("DB_PASSWORD", "nutradaily"),
	}

	var containerPort string
	var waitFor wait.Strategy
	switch dbType {
	case "postgres":
		containerPort = "5432"
		waitFor = wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second)
	case "mysql", "mariadb":
		containerPort = "3306"
	default:
		return nil, fmt.Errorf("unsupported container database type: %s", dbType)
	}

	tcpPort, err := nat.NewPort("tcp", containerPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}
	if waitFor == nil {
		waitFor = wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          dc.initEnv(),
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", dbType, err)
	}
	dc.Container = container

	host, err := container.Host(ctx)
	if err != nil {
		dc.Terminate(t)
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		dc.Terminate(t)
		return nil, err
	}
	dc.Host = host
	dc.Port = mapped.Port()

	if dbType != "postgres" {
		if err := dc.waitForMySQL(); err != nil {
			dc.Terminate(t)
			return nil, err
		}
	}

	logMessage(t, "DB_HOST=%s DB_PORT=%s", dc.Host, dc.Port)
	return dc, nil
}

func (dc *DatabaseContainer) initEnv() map[string]string {
	switch dc.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": dc.Password,
			"POSTGRES_USER":     dc.User,
			"POSTGRES_DB":       dc.Database,
		}
	default:
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": getEnv("DB_ROOT_PASSWORD", "root"),
			"MYSQL_DATABASE":      dc.Database,
			"MYSQL_USER":          dc.User,
			"MYSQL_PASSWORD":      dc.Password,
		}
	}
}

// waitForMySQL pings until the server accepts the application user.
// MariaDB listens before the init scripts have created it.
func (dc *DatabaseContainer) waitForMySQL() error {
	db, err := sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dc.User, dc.Password, dc.Host, dc.Port, dc.Database))
	if err != nil {
		return fmt.Errorf("failed to open %s for setup: %w", dc.DBType, err)
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("%s not ready after 30 seconds: %w", dc.DBType, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
