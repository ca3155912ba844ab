package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalog-web/internal/models"
	"catalog-web/internal/repository"
	"catalog-web/internal/utils"
)

type ProductHandler struct {
	productRepo *repository.ProductRepository
}

func NewProductHandler(productRepo *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	products, total, err := h.productRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Products retrieved successfully", fiber.Map{
		"products":   products,
		"pagination": pagination,
	}, pagination)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productRepo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", err)
	}

	return utils.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.productRepo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", err)
	}

	var req models.Product
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Product name is required", nil)
	}

	req.ID = product.ID
	if err := h.productRepo.Update(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update product", err)
	}

	return utils.SuccessResponse(c, "Product updated", req)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if _, err := h.productRepo.FindByID(c.Params("id")); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", err)
	}

	if err := h.productRepo.Delete(c.Params("id")); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete product", err)
	}

	return utils.SuccessResponse(c, "Product deleted", nil)
}

// DeactivateTestProducts bulk-retires products that were published as test
// records during an import dry run.
func (h *ProductHandler) DeactivateTestProducts(c *fiber.Ctx) error {
	products, _, err := h.productRepo.FindAll(1000000, 0, "")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", err)
	}

	deactivated := 0
	for i := range products {
		if !products[i].IsTestProduct || !products[i].IsActive {
			continue
		}
		products[i].IsActive = false
		if err := h.productRepo.Update(&products[i]); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate product", err)
		}
		deactivated++
	}

	return utils.SuccessResponse(c, "Test products deactivated", fiber.Map{
		"deactivated": deactivated,
	})
}
