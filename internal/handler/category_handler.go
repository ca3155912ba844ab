package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalog-web/internal/models"
	"catalog-web/internal/repository"
	"catalog-web/internal/utils"
)

type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryHandler(categoryRepo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAllActive()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories", err)
	}

	return utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.categoryRepo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found", err)
	}

	return utils.SuccessResponse(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.Category
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Category name is required", nil)
	}

	req.IsActive = true
	if err := h.categoryRepo.Create(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create category", err)
	}

	return utils.SuccessResponse(c, "Category created", req)
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	category, err := h.categoryRepo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found", err)
	}

	var req models.Category
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Category name is required", nil)
	}

	req.ID = category.ID
	if err := h.categoryRepo.Update(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update category", err)
	}

	return utils.SuccessResponse(c, "Category updated", req)
}
