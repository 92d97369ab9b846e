// Command migrate applies migrations/ with the Atlas CLI and optionally seeds an admin
// account from ADMIN_EMAIL / ADMIN_PASSWORD / ADMIN_ROLE.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"

	"villa-reservation/internal/domain/user"
	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/pkg/password"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "migrations", "migration directory")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := apply(ctx, cfg.DB, *dir, *atlasBin); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := seedAdmin(ctx, cfg.DB); err != nil {
		slog.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
}

func apply(ctx context.Context, cfg config.DBConfig, dir, atlasBin string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	client, err := atlasexec.NewClient(".", atlasBin)
	if err != nil {
		return err
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    atlasURL(cfg),
		DirURL: "file://" + abs,
	})
	if err != nil {
		return err
	}

	slog.Info("migrations applied", "count", len(res.Applied), "current", res.Current, "target", res.Target)
	return nil
}

// atlasURL omits the timezone parameter pgx accepts but Atlas does not need.
func atlasURL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}

func seedAdmin(ctx context.Context, cfg config.DBConfig) error {
	email := os.Getenv("ADMIN_EMAIL")
	plain := os.Getenv("ADMIN_PASSWORD")
	if email == "" || plain == "" {
		return nil
	}

	role := user.RoleAdmin
	if r := os.Getenv("ADMIN_ROLE"); r != "" {
		parsed, err := user.NewRole(r)
		if err != nil {
			return err
		}
		role = parsed
	}

	addr, err := user.NewEmail(email)
	if err != nil {
		return err
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	pool, cleanup, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		id, err := repository.NewAdminRepository(tx).Upsert(ctx, tx, addr, hash, role)
		if err != nil {
			return err
		}
		slog.Info("admin account ready", "admin_id", id, "email", addr.Value(), "role", role)
		return nil
	})
}
