package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bazaar/marketplace-api/internal/core/ports"
)

// ProductHandler serves the catalogue routes.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Name         string   `json:"name"         validate:"required"`
	Description  string   `json:"description"  validate:"required"`
	Price        float64  `json:"price"        validate:"required,gt=0"`
	ComparePrice *float64 `json:"comparePrice" validate:"omitempty,gt=0"`
	Images       []string `json:"images"       validate:"max=20"`
	Category     string   `json:"category"     validate:"required"`
	Subcategory  string   `json:"subcategory"`
	Tags         []string `json:"tags"         validate:"max=20"`
	Stock        *int     `json:"stock"        validate:"required,gte=0"`
}

type updateProductRequest struct {
	Name         *string  `json:"name"         validate:"omitempty,min=1"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"        validate:"omitempty,gt=0"`
	ComparePrice *float64 `json:"comparePrice" validate:"omitempty,gt=0"`
	Category     *string  `json:"category"     validate:"omitempty,min=1"`
	Stock        *int     `json:"stock"        validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive"`
	Images       []string `json:"images"       validate:"omitempty,max=20"`
	Tags         []string `json:"tags"         validate:"omitempty,max=20"`
}

// List returns a page of products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Exact category"
// @Param        vendorId  query     string  false  "Vendor id"
// @Param        search    query     string  false  "Substring of name or description"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        limit     query     int     false  "Page size"    default(12)
// @Success      200       {object}  envelope{data=[]domain.Product}
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	res, err := h.service.ListProducts(c.Request().Context(), ports.ListProductsInput{
		Category: c.QueryParam("category"),
		VendorID: c.QueryParam("vendorId"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    res.Items,
		Pagination: &pagination{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
	})
}

// queryInt parses an integer query parameter; absent or malformed values
// read as zero so the service defaults apply.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// Get returns a single product by id.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  envelope{data=domain.Product}
// @Failure      404  {object}  envelope
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, p)
}

// GetBySlug returns a single product by its URL slug.
//
// @Summary      Get product by slug
// @Tags         products
// @Produce      json
// @Param        slug  path      string  true  "Product slug"
// @Success      200   {object}  envelope{data=domain.Product}
// @Failure      404   {object}  envelope
// @Router       /products/slug/{slug} [get]
func (h *ProductHandler) GetBySlug(c echo.Context) error {
	p, err := h.service.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return ok(c, p)
}

// Create lists a new product owned by the caller.
//
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  envelope{data=domain.Product}
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.CreateProduct(c.Request().Context(), id, ports.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Images:       req.Images,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Tags:         req.Tags,
		Stock:        *req.Stock,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p, "Product created successfully")
}

// Update edits a product. Only its vendor or an admin may do so.
//
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=domain.Product}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateProduct(c.Request().Context(), id, c.Param("id"), ports.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Category:     req.Category,
		Stock:        req.Stock,
		IsActive:     req.IsActive,
		Images:       req.Images,
		Tags:         req.Tags,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p, "Product updated successfully")
}

// Delete removes a product. Only its vendor or an admin may do so.
//
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Product deleted successfully")
}

// Categories lists the catalogue taxonomy.
//
// @Summary      List categories
// @Tags         products
// @Produce      json
// @Success      200  {object}  envelope{data=[]string}
// @Router       /categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	return ok(c, h.service.Categories())
}
