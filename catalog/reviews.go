package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const (
	defaultReviewPage  = 1
	defaultReviewLimit = 10
)

// ReviewPage selects a slice of a product's reviews. Zero values fall back
// to page 1, limit 10, newest first.
type ReviewPage struct {
	ProductID int64
	Page      int
	Limit     int
	// Sort is "asc" or "desc" on created_at; anything else means desc.
	Sort string
}

type Reviews interface {
	List(ctx context.Context, page ReviewPage) ([]*Review, error)
	GetByID(ctx context.Context, id int64) (*Review, error)
	Create(ctx context.Context, review *Review) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviews struct {
	db *bun.DB
}

var _ Reviews = (*reviews)(nil)

func NewReviewsRepository(db *bun.DB) Reviews {
	return &reviews{db: db}
}

func (r *reviews) List(ctx context.Context, page ReviewPage) ([]*Review, error) {
	if page.Page < 1 {
		page.Page = defaultReviewPage
	}
	if page.Limit < 1 {
		page.Limit = defaultReviewLimit
	}

	order := "created_at DESC"
	if strings.EqualFold(page.Sort, "asc") {
		order = "created_at ASC"
	}

	var records []*Review

	q := r.db.NewSelect().
		Model(&records).
		Order(order).
		Limit(page.Limit).
		Offset((page.Page - 1) * page.Limit)

	if page.ProductID != 0 {
		q = q.Where("?TableAlias.product_id = ?", page.ProductID)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Review{}, nil
		}
		return nil, err
	}

	if records == nil {
		records = []*Review{}
	}
	return records, nil
}

func (r *reviews) GetByID(ctx context.Context, id int64) (*Review, error) {
	review := &Review{}
	err := r.db.NewSelect().
		Model(review).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (r *reviews) Create(ctx context.Context, review *Review) (*Review, error) {
	if _, err := r.db.NewInsert().Model(review).Exec(ctx); err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviews) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Review)(nil)).
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
		return ErrReviewNotFound
	}
	return nil
}
