package normalizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerAlias is one configured raw-name -> display-name mapping.
type CustomerAlias struct {
	ID          uuid.UUID `json:"id"`
	Alias       string    `json:"alias"` // stored uppercased
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AliasStore manages customer aliases in the database.
type AliasStore struct {
	db *pgxpool.Pool
}

// NewAliasStore creates a new alias store.
func NewAliasStore(db *pgxpool.Pool) *AliasStore {
	return &AliasStore{db: db}
}

// Save creates or updates an alias. The raw name is uppercased before
// storage so lookups stay case-insensitive.
func (s *AliasStore) Save(ctx context.Context, alias CustomerAlias) (*CustomerAlias, error) {
	query := `
		INSERT INTO customer_aliases (alias, display_name)
		VALUES ($1, $2)
		ON CONFLICT (alias) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			updated_at = now()
		RETURNING id, alias, display_name, created_at, updated_at
	`

	var result CustomerAlias
	err := s.db.QueryRow(ctx, query,
		strings.ToUpper(strings.TrimSpace(alias.Alias)),
		strings.TrimSpace(alias.DisplayName),
	).Scan(&result.ID, &result.Alias, &result.DisplayName, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save alias: %w", err)
	}
	return &result, nil
}

// List returns all configured aliases ordered by raw name.
func (s *AliasStore) List(ctx context.Context) ([]CustomerAlias, error) {
	query := `
		SELECT id, alias, display_name, created_at, updated_at
		FROM customer_aliases
		ORDER BY alias
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []CustomerAlias
	for rows.Next() {
		var a CustomerAlias
		if err := rows.Scan(&a.ID, &a.Alias, &a.DisplayName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// Delete removes an alias.
func (s *AliasStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM customer_aliases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LoadResolver builds an AliasResolver from the current table contents.
func (s *AliasStore) LoadResolver(ctx context.Context) (*AliasResolver, error) {
	aliases, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(aliases))
	for _, a := range aliases {
		m[a.Alias] = a.DisplayName
	}
	return NewAliasResolver(m), nil
}
