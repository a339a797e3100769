package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// Contact is a single directory row.
type Contact struct {
	bun.BaseModel `bun:"table:contacts"`

	Name  string `bun:"name,pk"`
	Email string `bun:"email,notnull"`
}

// PostgresStore backs the directory with a contacts table.
type PostgresStore struct {
	db *bun.DB
}

var _ contractx.Directory = (*PostgresStore)(nil)

// NewPostgresStore opens the database and ensures the contacts table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := &PostgresStore{db: db}
	if _, err := db.NewCreateTable().
		Model((*Contact)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create contacts table: %w", err)
	}
	return store, nil
}

func (p *PostgresStore) LookupAll(ctx context.Context) (map[string]string, error) {
	var rows []Contact
	if err := p.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Email
	}
	return out, nil
}

func (p *PostgresStore) Upsert(ctx context.Context, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return fmt.Errorf("%w: contact name and email are required", contractx.ErrValidation)
	}

	contact := &Contact{Name: name, Email: email}
	if _, err := p.db.NewInsert().
		Model(contact).
		On("CONFLICT (name) DO UPDATE").
		Set("email = EXCLUDED.email").
		Exec(ctx); err != nil {
		return fmt.Errorf("upsert contact %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
