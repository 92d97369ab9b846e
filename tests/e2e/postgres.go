//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "villa"
	pgPassword = "villa-test"
	pgPort     = nat.Port("5432/tcp")
)

// postgresServer is started once per test binary and shared by every suite in it.
type postgresServer struct {
	container testcontainers.Container
	host      string
	port      string
}

var (
	serverOnce sync.Once
	server     *postgresServer
	serverErr  error
)

func sharedPostgres(t *testing.T) *postgresServer {
	t.Helper()
	serverOnce.Do(func() {
		server, serverErr = startPostgres()
	})
	require.NoError(t, serverErr, "failed to start postgres container")
	return server
}

func startPostgres() (*postgresServer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			// durability is irrelevant for throwaway data
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "full_page_writes=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return adminDSN(host, port.Port())
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "villa-e2e-tests"},
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return nil, err
	}
	return &postgresServer{container: c, host: host, port: mapped.Port()}, nil
}

func adminDSN(host, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port)
}

// createDatabase provisions an isolated, migrated database for one suite and drops it
// when the suite finishes.
func (p *postgresServer) createDatabase(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()

	name := "villa_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	p.admin(t, "CREATE DATABASE "+name)
	t.Cleanup(func() {
		p.admin(t, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)")
	})

	cfg := config.DBConfig{
		Host:     p.host,
		Port:     p.port,
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
	pool, cleanup, err := db.Connect(cfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	require.NoError(t, applyMigrations(pool), "migration failed")
	return pool, cfg
}

func (p *postgresServer) admin(t *testing.T, stmt string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, adminDSN(p.host, p.port))
	require.NoError(t, err, "admin connection failed")
	defer pool.Close()

	if _, err := pool.Exec(ctx, stmt); err != nil {
		slog.Warn("admin statement failed", "statement", stmt, "error", err.Error())
		require.NoError(t, err)
	}
}

// applyMigrations runs every migrations/*.sql file in name order, the same files
// cmd/migrate applies in production.
func applyMigrations(pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	slices.Sort(files)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// repoRoot walks up from the package directory go test runs in until it finds go.mod.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}
