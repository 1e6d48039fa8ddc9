package catalog

import "github.com/goliatone/go-errors"

const (
	TextCodeProductNotFound = "catalog_product_not_found"
	TextCodeReviewNotFound  = "catalog_review_not_found"
)

// ErrProductNotFound is returned when a product lookup or mutation targets a
// missing id.
var ErrProductNotFound = errors.New("product with given ID not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProductNotFound).
	WithCode(errors.CodeNotFound)

// ErrReviewNotFound is returned when a review lookup or delete targets a
// missing id.
var ErrReviewNotFound = errors.New("review with given ID not found", errors.CategoryNotFound).
	WithTextCode(TextCodeReviewNotFound).
	WithCode(errors.CodeNotFound)
