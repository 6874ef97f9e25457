package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gomantics/cardvault/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("session not found")

// Create opens a session, storing the provider token encrypted at rest.
func Create(ctx context.Context, params CreateParams) (*Session, error) {
	encrypted, err := encrypt(params.Token)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	provider := params.Provider
	if provider == "" {
		provider = "github"
	}

	now := time.Now().Unix()
	session := &Session{
		ID:       id,
		User:     params.User,
		Provider: provider,
		Created:  now,
		Updated:  now,
	}

	err = db.Query(ctx, func(pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx,
			`INSERT INTO sessions (id, username, provider, token_encrypted, created, updated)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			session.ID, session.User, session.Provider, encrypted, session.Created, session.Updated,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Get retrieves a session by ID
func Get(ctx context.Context, id string) (*Session, error) {
	session, err := db.Query1(ctx, func(pool *pgxpool.Pool) (*Session, error) {
		s := &Session{}
		err := pool.QueryRow(ctx,
			`SELECT id, username, provider, created, updated FROM sessions WHERE id = $1`, id,
		).Scan(&s.ID, &s.User, &s.Provider, &s.Created, &s.Updated)
		return s, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// GetToken retrieves and decrypts the provider token for a session.
func GetToken(ctx context.Context, id string) (string, error) {
	encrypted, err := db.Query1(ctx, func(pool *pgxpool.Pool) (string, error) {
		var token string
		err := pool.QueryRow(ctx,
			`SELECT token_encrypted FROM sessions WHERE id = $1`, id,
		).Scan(&token)
		return token, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return decrypt(encrypted)
}

// Delete removes a session (logout).
func Delete(ctx context.Context, id string) error {
	return db.Query(ctx, func(pool *pgxpool.Pool) error {
		tag, err := pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func newID() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
