// Package dbinit creates the blog database and keeps its schema current.
package dbinit

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
)

// lockKey serializes concurrent migrators ('blog').
const lockKey = int64(0x626c6f67)

// EnsureDatabaseAndMigrate creates targetDB through adminConn (a maintenance
// DB such as "postgres") when it is missing, then applies the embedded
// migrations to it. It returns the names of the migrations it applied.
func EnsureDatabaseAndMigrate(ctx context.Context, adminConn, targetDB, owner string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := ensureDatabase(ctx, adminConn, targetDB, owner); err != nil {
		return nil, err
	}
	targetConn, err := replaceDBName(adminConn, targetDB)
	if err != nil {
		return nil, err
	}
	conn, err := pgx.Connect(ctx, targetConn)
	if err != nil {
		return nil, fmt.Errorf("target connect: %w", err)
	}
	defer conn.Close(ctx)

	return Migrate(ctx, conn, Migrations())
}

func ensureDatabase(ctx context.Context, adminConn, targetDB, owner string) error {
	admin, err := pgx.Connect(ctx, adminConn)
	if err != nil {
		return fmt.Errorf("admin connect: %w", err)
	}
	defer admin.Close(ctx)

	var exists bool
	if err := admin.QueryRow(ctx,
		`select exists (select 1 from pg_database where datname = $1)`, targetDB,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}

	stmt := `create database ` + pgx.Identifier{targetDB}.Sanitize()
	if owner != "" {
		stmt += ` with owner ` + pgx.Identifier{owner}.Sanitize()
	}
	if _, err := admin.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create database %q: %w", targetDB, err)
	}
	return nil
}

// replaceDBName swaps the database of a postgres:// URL.
func replaceDBName(conn, db string) (string, error) {
	u, err := url.Parse(conn)
	if err != nil {
		return "", fmt.Errorf("parse conn string: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("unexpected conn string format; expected postgres://host/db")
	}
	u.Path = "/" + db
	u.RawPath = ""
	return u.String(), nil
}
