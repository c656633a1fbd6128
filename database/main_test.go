package database

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testDatabaseName = "kanban_test"

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	var container testcontainers.Container
	if dbURL == "" {
		var err error
		container, dbURL, err = startPostgres(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
			fmt.Fprintf(os.Stderr, "Set TEST_DATABASE_URL or run with -short to skip integration tests\n")
			os.Exit(1)
		}
	}

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}

	_, _ = conn.Exec(ctx, "DROP DATABASE IF EXISTS "+testDatabaseName)

	_, err = conn.Exec(ctx, "CREATE DATABASE "+testDatabaseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create test database: %v\n", err)
		conn.Close(ctx)
		os.Exit(1)
	}

	conn.Close(ctx)

	testDBURL, err := withDatabase(dbURL, testDatabaseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid database URL: %v\n", err)
		os.Exit(1)
	}

	testDB, err = SetupTestDB(testDBURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	TeardownTestDB(testDB)

	conn, err = pgx.Connect(ctx, dbURL)
	if err == nil {
		_, _ = conn.Exec(ctx, "DROP DATABASE IF EXISTS "+testDatabaseName)
		conn.Close(ctx)
	}

	if container != nil {
		_ = container.Terminate(ctx)
	}

	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}

	return container, fmt.Sprintf("postgres://test:test@%s:%s/postgres?sslmode=disable", host, port.Port()), nil
}

func withDatabase(dbURL, name string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	u.Path = "/" + name
	return u.String(), nil
}
