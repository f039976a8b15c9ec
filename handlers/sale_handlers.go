package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"salesdash/analytics"
	"salesdash/models"
	"salesdash/utils"
)

// HandleListSales returns the owner's sales of the last `days` days together
// with their daily rollup.
// GET /api/v1/sales?days=30&productId=
func (h *Handler) HandleListSales(c *fiber.Ctx) error {
	days, ok := h.queryDays(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "days must be between 1 and 366")
	}

	w := analytics.WindowFor(h.ownerNow(c), days)
	sales, err := h.Store.ListSales(c.UserContext(), ownerID(c), models.SalesFilter{
		From:      w.Start,
		To:        w.End,
		ProductID: c.Query("productId"),
	})
	if err != nil {
		return h.storeError(c, err, "sales")
	}

	daily := analytics.DailyAggregates(sales)
	return successJSON(c, fiber.StatusOK, fiber.Map{
		"sales":      sales,
		"dailySales": daily,
		"total":      analytics.SumTotals(daily),
		"window":     w,
	})
}

// HandleGetSale returns a single sale.
func (h *Handler) HandleGetSale(c *fiber.Ctx) error {
	s, err := h.Store.GetSale(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, "sale")
	}
	return successJSON(c, fiber.StatusOK, s)
}

// HandleCreateSale records a sale and takes the quantity out of stock.
// Product name and unit price default to the product's current values.
// POST /api/v1/sales
func (h *Handler) HandleCreateSale(c *fiber.Ctx) error {
	var input models.SaleInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.ProductID = strings.TrimSpace(input.ProductID)
	if input.ProductID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "productId is required")
	}
	if input.Quantity <= 0 {
		return errorJSON(c, fiber.StatusBadRequest, "quantity must be greater than zero")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return errorJSON(c, fiber.StatusBadRequest, "price cannot be negative")
	}
	date := utils.FirstNonEmpty(input.Date, h.ownerNow(c).Format(analytics.DateLayout))
	if !validDate(date) {
		return errorJSON(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	p, err := h.Store.GetProduct(c.UserContext(), ownerID(c), input.ProductID)
	if err != nil {
		return h.storeError(c, err, "product")
	}

	sale := models.Sale{
		ID:          uuid.NewString(),
		UserID:      ownerID(c),
		Date:        date,
		ProductID:   p.ID,
		ProductName: utils.FirstNonEmpty(input.ProductName, p.Name),
		Quantity:    input.Quantity,
		UnitPrice:   p.Price,
		CreatedAt:   h.Now().UTC(),
	}
	if input.Price != nil {
		sale.UnitPrice = *input.Price
	}
	sale.Recompute()

	if err := h.Store.CreateSale(c.UserContext(), &sale); err != nil {
		return h.storeError(c, err, "sale")
	}

	h.logActivity(c, models.ActionAddSale, fmt.Sprintf("Mencatat penjualan %d x %s (%s)",
		sale.Quantity, sale.ProductName, analytics.FormatCurrency(sale.Total.InexactFloat64())))
	return successJSON(c, fiber.StatusCreated, sale)
}

// HandleUpdateSale applies a partial update and recomputes the total.
// Stock is not adjusted.
// PUT /api/v1/sales/:id
func (h *Handler) HandleUpdateSale(c *fiber.Ctx) error {
	var input models.SaleUpdate
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.Empty() {
		return errorJSON(c, fiber.StatusBadRequest, "No fields to update")
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return errorJSON(c, fiber.StatusBadRequest, "quantity must be greater than zero")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return errorJSON(c, fiber.StatusBadRequest, "price cannot be negative")
	}
	if input.Date != nil && !validDate(*input.Date) {
		return errorJSON(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	sale, err := h.Store.GetSale(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return h.storeError(c, err, "sale")
	}
	if input.ProductID != nil && *input.ProductID != sale.ProductID {
		p, err := h.Store.GetProduct(c.UserContext(), ownerID(c), *input.ProductID)
		if err != nil {
			return h.storeError(c, err, "product")
		}
		if input.ProductName == nil {
			input.ProductName = &p.Name
		}
	}

	input.Apply(&sale)
	if err := h.Store.UpdateSale(c.UserContext(), &sale); err != nil {
		return h.storeError(c, err, "sale")
	}

	h.logActivity(c, models.ActionUpdateSale, fmt.Sprintf("Mengubah penjualan %s", sale.ProductName))
	return successJSON(c, fiber.StatusOK, sale)
}

// HandleDeleteSale removes a sale. Stock is not restored.
func (h *Handler) HandleDeleteSale(c *fiber.Ctx) error {
	id := c.Params("id")
	sale, err := h.Store.GetSale(c.UserContext(), ownerID(c), id)
	if err != nil {
		return h.storeError(c, err, "sale")
	}
	if err := h.Store.DeleteSale(c.UserContext(), ownerID(c), id); err != nil {
		return h.storeError(c, err, "sale")
	}

	h.logActivity(c, models.ActionDeleteSale, fmt.Sprintf("Menghapus penjualan %s tanggal %s", sale.ProductName, sale.Date))
	return successJSON(c, fiber.StatusOK, fiber.Map{"id": id})
}

func validDate(s string) bool {
	_, err := time.Parse(analytics.DateLayout, s)
	return err == nil
}
