package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{DB: db} }

func (s *PGStore) ByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u User
	err := s.DB.QueryRow(ctx, `
		select id::text, username, display_name, role, created_at
		from users where id = $1::uuid
	`, id).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &u, nil
}

func (s *PGStore) Credentials(ctx context.Context, username string) (*User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		u    User
		hash string
	)
	err := s.DB.QueryRow(ctx, `
		select id::text, username, display_name, role, created_at, password_hash
		from users where lower(username) = $1
	`, strings.ToLower(strings.TrimSpace(username))).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("user credentials: %w", err)
	}
	return &u, hash, nil
}

func (s *PGStore) Create(ctx context.Context, username, displayName, role, passwordHash string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u User
	err := s.DB.QueryRow(ctx, `
		insert into users (username, display_name, password_hash, role)
		values ($1, $2, $3, $4)
		returning id::text, username, display_name, role, created_at
	`, username, displayName, passwordHash, role).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %q", ErrExists, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// AdminChatIDs lists telegram chats linked to admin accounts.
func (s *PGStore) AdminChatIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `select telegram_chat_id::text from users where role = 'admin' and telegram_chat_id is not null`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
