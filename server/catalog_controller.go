package server

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/mataure/storefront/auth"
	"github.com/mataure/storefront/catalog"
	"github.com/mataure/storefront/middleware/authware"
)

type productsController struct {
	repo   catalog.Products
	logger auth.Logger
}

func newProductsController(deps Deps) *productsController {
	return &productsController{repo: deps.Products, logger: deps.Logger}
}

// ProductPayload creates or replaces a product.
type ProductPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (p ProductPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Length(0, 150)),
		validation.Field(&p.Price, validation.Required, validation.Min(0.0)),
	)
}

// ProductUpdatePayload carries the optional fields of a partial update.
type ProductUpdatePayload struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func (p ProductUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Length(0, 150)),
		validation.Field(&p.Price, validation.Min(0.0)),
	)
}

func (pc *productsController) List(c *fiber.Ctx) error {
	filter := catalog.ProductFilter{Name: c.Query("name")}

	if minStr, maxStr := c.Query("minPrice"), c.Query("maxPrice"); minStr != "" && maxStr != "" {
		minPrice, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return errInvalidQueryParam
		}
		maxPrice, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return errInvalidQueryParam
		}
		filter.MinPrice = &minPrice
		filter.MaxPrice = &maxPrice
	}

	products, err := pc.repo.List(c.UserContext(), filter)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list products")
	}
	return c.JSON(products)
}

func (pc *productsController) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	product, err := pc.repo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (pc *productsController) Create(c *fiber.Ctx) error {
	claims, ok := authware.ClaimsFromCtx(c, authware.DefaultContextKey)
	if !ok {
		return auth.ErrMissingBearer
	}

	payload := new(ProductPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	product, err := pc.repo.Create(c.UserContext(), &catalog.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		UserID:      claims.UserID(),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create product")
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (pc *productsController) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	payload := new(ProductUpdatePayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	product, err := pc.repo.Update(c.UserContext(), id, catalog.ProductUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (pc *productsController) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := pc.repo.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "product deleted successfully"})
}

type reviewsController struct {
	repo     catalog.Reviews
	products catalog.Products
	logger   auth.Logger
}

func newReviewsController(deps Deps) *reviewsController {
	return &reviewsController{repo: deps.Reviews, products: deps.Products, logger: deps.Logger}
}

// ReviewPayload creates a review for a product.
type ReviewPayload struct {
	Rate      int    `json:"rate"`
	Comment   string `json:"comment"`
	ProductID int64  `json:"productId"`
}

func (p ReviewPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Rate, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.Comment, validation.Length(0, 500)),
		validation.Field(&p.ProductID, validation.Required),
	)
}

func (rc *reviewsController) List(c *fiber.Ctx) error {
	page := catalog.ReviewPage{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
		Sort:  c.Query("sort"),
	}
	if productID := c.QueryInt("productId", 0); productID > 0 {
		page.ProductID = int64(productID)
	}

	reviews, err := rc.repo.List(c.UserContext(), page)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list reviews")
	}
	return c.JSON(reviews)
}

func (rc *reviewsController) Create(c *fiber.Ctx) error {
	claims, ok := authware.ClaimsFromCtx(c, authware.DefaultContextKey)
	if !ok {
		return auth.ErrMissingBearer
	}

	payload := new(ReviewPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	// the target product must exist
	if _, err := rc.products.GetByID(c.UserContext(), payload.ProductID); err != nil {
		return err
	}

	review, err := rc.repo.Create(c.UserContext(), &catalog.Review{
		Rate:      payload.Rate,
		Comment:   payload.Comment,
		ProductID: payload.ProductID,
		UserID:    claims.UserID(),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create review")
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

func (rc *reviewsController) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := rc.repo.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "review deleted successfully"})
}
