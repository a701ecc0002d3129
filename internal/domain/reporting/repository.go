// Package reporting is the pass-through aggregation collaborator of the
// ingestion pipeline. It reads what ingestion wrote; it never feeds back into
// ingestion decisions.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CustomerSales is aggregated sales for one customer.
type CustomerSales struct {
	CustomerName string          `json:"customer_name"`
	Quantity     int64           `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

// TitleSales is aggregated sales for one title.
type TitleSales struct {
	Title    string          `json:"title"`
	Quantity int64           `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// Repository runs reporting queries against the record store tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new reporting repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SalesByCustomer aggregates quantity and total per customer within the date
// range, skipping customers on the exclusion list.
func (r *Repository) SalesByCustomer(ctx context.Context, from, to time.Time) ([]CustomerSales, error) {
	query := `
		SELECT customer_name, COALESCE(SUM(quantity), 0), COALESCE(SUM(total), 0)
		FROM sales_records
		WHERE order_date >= $1 AND order_date < $2
		  AND NOT EXISTS (
			SELECT 1 FROM excluded_customers e
			WHERE e.customer_name = sales_records.customer_name
		  )
		GROUP BY customer_name
		ORDER BY SUM(total) DESC
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by customer: %w", err)
	}
	defer rows.Close()

	var out []CustomerSales
	for rows.Next() {
		var cs CustomerSales
		if err := rows.Scan(&cs.CustomerName, &cs.Quantity, &cs.Total); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// SalesByTitle aggregates quantity and total per title within the date range,
// skipping excluded customers.
func (r *Repository) SalesByTitle(ctx context.Context, from, to time.Time) ([]TitleSales, error) {
	query := `
		SELECT title, COALESCE(SUM(quantity), 0), COALESCE(SUM(total), 0)
		FROM sales_records
		WHERE order_date >= $1 AND order_date < $2
		  AND NOT EXISTS (
			SELECT 1 FROM excluded_customers e
			WHERE e.customer_name = sales_records.customer_name
		  )
		GROUP BY title
		ORDER BY SUM(total) DESC
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by title: %w", err)
	}
	defer rows.Close()

	var out []TitleSales
	for rows.Next() {
		var ts TitleSales
		if err := rows.Scan(&ts.Title, &ts.Quantity, &ts.Total); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// ExcludeCustomer flags a customer so reporting skips its records. Ingestion
// is unaffected; the records stay in the store.
func (r *Repository) ExcludeCustomer(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("customer name is required")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO excluded_customers (customer_name)
		VALUES ($1)
		ON CONFLICT (customer_name) DO NOTHING
	`, name)
	return err
}

// IncludeCustomer removes a customer from the exclusion list.
func (r *Repository) IncludeCustomer(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM excluded_customers WHERE customer_name = $1`, strings.TrimSpace(name))
	return err
}

// ListExclusions returns all excluded customer names.
func (r *Repository) ListExclusions(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT customer_name FROM excluded_customers ORDER BY customer_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
