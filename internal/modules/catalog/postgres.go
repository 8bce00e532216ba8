package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// postgresRepo reads the catalog from a products table owned by another system.
// It never writes.
type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, name, categories, six_month, one_year, lifetime, devices, description, link
	FROM products`

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var cats []string
	var six, year, life decimal.NullDecimal
	var devices sql.NullInt64
	var link sql.NullString
	err := row.Scan(&p.ID, &p.Name, pq.Array(&cats), &six, &year, &life, &devices, &p.Description, &link)
	if err != nil {
		return nil, err
	}
	p.Categories = cats
	p.Prices = PriceTable{
		SixMonth: nullPrice(six),
		OneYear:  nullPrice(year),
		Lifetime: nullPrice(life),
	}
	if devices.Valid {
		if devices.Int64 <= 0 {
			return nil, fmt.Errorf("product %s: devices must be positive, got %d", p.ID, devices.Int64)
		}
		p.Devices = Limited(int(devices.Int64))
	} else {
		p.Devices = Unlimited()
	}
	if link.Valid {
		p.Link = link.String
	}
	return p, nil
}

func nullPrice(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func (r *postgresRepo) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, selectSQL+` ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectSQL+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}
