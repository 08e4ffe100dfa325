package client

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// sessionTokenKey is the fixed key the single token row lives under.
const sessionTokenKey = "session"

// SessionToken is the persisted token slot.
type SessionToken struct {
	bun.BaseModel `bun:"table:session_tokens,alias:st"`
	Key           string    `bun:"key,pk" json:"key"`
	Token         string    `bun:"token,notnull" json:"token"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

var _ TokenStore = &BunTokenStore{}

// BunTokenStore persists the bearer token in a SQLite database through Bun.
// The CLI uses it so the session survives restarts alongside any other
// local state.
type BunTokenStore struct {
	db *bun.DB
}

// NewBunTokenStore ensures the token table exists and returns the store.
func NewBunTokenStore(ctx context.Context, db *bun.DB) (*BunTokenStore, error) {
	if _, err := db.NewCreateTable().
		Model((*SessionToken)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create token table")
	}

	return &BunTokenStore{db: db}, nil
}

// OpenSQLiteTokenStore opens (or creates) a SQLite file and returns a store
// backed by it. Pass ":memory:" for an ephemeral database.
func OpenSQLiteTokenStore(ctx context.Context, dsn string) (*BunTokenStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open token database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return NewBunTokenStore(ctx, db)
}

func (s *BunTokenStore) Load(ctx context.Context) (string, error) {
	rec := new(SessionToken)
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", sessionTokenKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load token")
	}

	return rec.Token, nil
}

func (s *BunTokenStore) Save(ctx context.Context, token string) error {
	rec := &SessionToken{
		Key:       sessionTokenKey,
		Token:     token,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to save token")
	}

	return nil
}

func (s *BunTokenStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*SessionToken)(nil)).
		Where("key = ?", sessionTokenKey).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear token")
	}

	return nil
}

// Close releases the underlying database handle.
func (s *BunTokenStore) Close() error {
	return s.db.Close()
}
