package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salesdash/models"
	"salesdash/utils"
)

const defaultUnit = "pcs"

// HandleListProducts returns one page of the owner's products ordered by name.
// GET /api/v1/products?page=&pageSize=
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	page, pageSize := utils.NormalizePage(c.QueryInt("page", 1), c.QueryInt("pageSize", utils.DefaultPageSize))

	items, total, err := h.Store.ListProductsPage(c.UserContext(), ownerID(c), pageSize, (page-1)*pageSize)
	if err != nil {
		return h.storeError(c, err, "products")
	}

	return successJSON(c, fiber.StatusOK, models.PaginatedProductsResponse{
		Items:      items,
		Pagination: utils.CreatePagination(total, page, pageSize),
	})
}

// HandleGetProduct returns a single product.
func (h *Handler) HandleGetProduct(c *fiber.Ctx) error {
	p, err := h.Store.GetProduct(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, "product")
	}
	return successJSON(c, fiber.StatusOK, p)
}

// HandleCreateProduct adds a product. MinStock defaults to the owner's
// low-stock threshold.
// POST /api/v1/products
func (h *Handler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Product name is required")
	}
	if input.Price.IsNegative() || input.CostPrice.IsNegative() {
		return errorJSON(c, fiber.StatusBadRequest, "Prices cannot be negative")
	}
	if input.Stock < 0 || (input.MinStock != nil && *input.MinStock < 0) {
		return errorJSON(c, fiber.StatusBadRequest, "Stock cannot be negative")
	}

	var minStock int
	if input.MinStock != nil {
		minStock = *input.MinStock
	} else {
		settings, err := h.settingsFor(c)
		if err != nil {
			return h.storeError(c, err, "settings")
		}
		minStock = settings.LowStockThreshold
	}

	now := h.Now().UTC()
	p := models.Product{
		ID:        uuid.NewString(),
		UserID:    ownerID(c),
		Name:      input.Name,
		Category:  strings.TrimSpace(input.Category),
		Price:     input.Price,
		CostPrice: input.CostPrice,
		Stock:     input.Stock,
		MinStock:  minStock,
		Unit:      utils.FirstNonEmpty(input.Unit, defaultUnit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Store.CreateProduct(c.UserContext(), &p); err != nil {
		return h.storeError(c, err, "product")
	}

	h.logActivity(c, models.ActionAddProduct, fmt.Sprintf("Menambah produk %s", p.Name))
	return successJSON(c, fiber.StatusCreated, p)
}

// HandleUpdateProduct applies a partial update.
// PUT /api/v1/products/:id
func (h *Handler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input models.ProductUpdate
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Empty() {
		return errorJSON(c, fiber.StatusBadRequest, "No fields to update")
	}

	p, err := h.Store.GetProduct(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, "product")
	}

	utils.TrimPtr(input.Name)
	if input.Name != nil {
		if *input.Name == "" {
			return errorJSON(c, fiber.StatusBadRequest, "Product name is required")
		}
		p.Name = *input.Name
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return errorJSON(c, fiber.StatusBadRequest, "Prices cannot be negative")
		}
		p.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return errorJSON(c, fiber.StatusBadRequest, "Prices cannot be negative")
		}
		p.CostPrice = *input.CostPrice
	}
	if input.Stock != nil {
		p.Stock = *input.Stock
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return errorJSON(c, fiber.StatusBadRequest, "Stock cannot be negative")
		}
		p.MinStock = *input.MinStock
	}
	if input.Unit != nil {
		p.Unit = utils.FirstNonEmpty(*input.Unit, defaultUnit)
	}
	p.UpdatedAt = h.Now().UTC()

	if err := h.Store.UpdateProduct(c.UserContext(), &p); err != nil {
		return h.storeError(c, err, "product")
	}

	h.logActivity(c, models.ActionUpdateProduct, fmt.Sprintf("Mengubah produk %s", p.Name))
	return successJSON(c, fiber.StatusOK, p)
}

// HandleDeleteProduct removes a product. Its past sales are kept.
func (h *Handler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	p, err := h.Store.GetProduct(c.UserContext(), ownerID(c), id)
	if err != nil {
		return h.storeError(c, err, "product")
	}
	if err := h.Store.DeleteProduct(c.UserContext(), ownerID(c), id); err != nil {
		return h.storeError(c, err, "product")
	}

	h.Log.Info("product deleted", zap.String("product_id", id), zap.String("user_id", ownerID(c)))
	h.logActivity(c, models.ActionDeleteProduct, fmt.Sprintf("Menghapus produk %s", p.Name))
	return successJSON(c, fiber.StatusOK, fiber.Map{"id": id})
}
