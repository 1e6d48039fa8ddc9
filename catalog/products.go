package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ProductFilter narrows List. Name matches as a substring; the price bounds
// apply only when both are set.
type ProductFilter struct {
	Name     string
	MinPrice *float64
	MaxPrice *float64
}

// ProductUpdate carries the optional fields of a partial product update.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
}

type Products interface {
	List(ctx context.Context, filter ProductFilter) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product *Product) (*Product, error)
	Update(ctx context.Context, id int64, update ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type products struct {
	db *bun.DB
}

var _ Products = (*products)(nil)

func NewProductsRepository(db *bun.DB) Products {
	return &products{db: db}
}

func (r *products) List(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	var records []*Product

	q := r.db.NewSelect().
		Model(&records).
		Order("id ASC")

	if filter.Name != "" {
		q = q.Where("?TableAlias.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil {
		q = q.Where("?TableAlias.price BETWEEN ? AND ?", *filter.MinPrice, *filter.MaxPrice)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Product{}, nil
		}
		return nil, err
	}

	if records == nil {
		records = []*Product{}
	}
	return records, nil
}

func (r *products) GetByID(ctx context.Context, id int64) (*Product, error) {
	product := &Product{}
	err := r.db.NewSelect().
		Model(product).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *products) Create(ctx context.Context, product *Product) (*Product, error) {
	product.Name = strings.ToLower(product.Name)

	if _, err := r.db.NewInsert().Model(product).Exec(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *products) Update(ctx context.Context, id int64, update ProductUpdate) (*Product, error) {
	q := r.db.NewUpdate().
		Model((*Product)(nil)).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id)

	if update.Name != nil {
		q = q.Set("name = ?", strings.ToLower(*update.Name))
	}
	if update.Description != nil {
		q = q.Set("description = ?", *update.Description)
	}
	if update.Price != nil {
		q = q.Set("price = ?", *update.Price)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *products) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
