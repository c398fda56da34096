package dbinit

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations is the blog schema shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migration is one schema file. Checksum is the hex sha256 of SQL.
type Migration struct {
	Name     string
	SQL      string
	Checksum string
}

// ErrChecksumMismatch means a file was edited after it was applied.
var ErrChecksumMismatch = errors.New("migration changed after it was applied")

// Load reads every *.sql file at the root of fsys in name order.
func Load(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, fmt.Errorf("migration %s is empty", name)
		}
		sum := sha256.Sum256(b)
		out = append(out, Migration{
			Name:     path.Base(name),
			SQL:      string(b),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}
	return out, nil
}

// Pending is the subset of all not yet in applied (name -> checksum), in
// order. An applied file whose checksum differs is an error.
func Pending(all []Migration, applied map[string]string) ([]Migration, error) {
	var out []Migration
	for _, m := range all {
		sum, ok := applied[m.Name]
		if !ok {
			out = append(out, m)
			continue
		}
		if sum != m.Checksum {
			return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, m.Name)
		}
	}
	return out, nil
}

// Migrate applies the pending migrations from fsys under an advisory lock,
// each in its own transaction, and returns the names it applied.
func Migrate(ctx context.Context, conn *pgx.Conn, fsys fs.FS) ([]string, error) {
	all, err := Load(fsys)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, `select pg_advisory_lock($1)`, lockKey); err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	defer conn.Exec(context.Background(), `select pg_advisory_unlock($1)`, lockKey)

	if _, err := conn.Exec(ctx, `
		create table if not exists schema_migrations (
			filename   text primary key,
			checksum   text not null,
			applied_at timestamptz not null default now()
		)`); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := Applied(ctx, conn)
	if err != nil {
		return nil, err
	}
	pending, err := Pending(all, applied)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range pending {
		err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("exec: %w", err)
			}
			if _, err := tx.Exec(ctx,
				`insert into schema_migrations (filename, checksum) values ($1, $2)`,
				m.Name, m.Checksum,
			); err != nil {
				return fmt.Errorf("record: %w", err)
			}
			return nil
		})
		if err != nil {
			return done, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		done = append(done, m.Name)
	}
	return done, nil
}

// Applied reads schema_migrations as name -> checksum.
func Applied(ctx context.Context, conn *pgx.Conn) (map[string]string, error) {
	rows, err := conn.Query(ctx, `select filename, checksum from schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := map[string]string{}
	var name, sum string
	_, err = pgx.ForEachRow(rows, []any{&name, &sum}, func() error {
		applied[name] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan schema_migrations: %w", err)
	}
	return applied, nil
}
