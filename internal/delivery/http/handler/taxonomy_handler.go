package handler

import (
	"errors"

	"blog-api/internal/delivery/http/dto"
	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/domain/blog"
	"blog-api/internal/pkg/response"
	"blog-api/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TaxonomyHandler struct {
	uc usecase.TaxonomyUsecase
}

func NewTaxonomyHandler(uc usecase.TaxonomyUsecase) *TaxonomyHandler {
	return &TaxonomyHandler{uc: uc}
}

func (h *TaxonomyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/categories", h.ListCategories)
	r.Get("/categories/:id", h.GetCategory)
	r.Get("/tags", h.ListTags)
	r.Get("/tags/:id", h.GetTag)
}

func (h *TaxonomyHandler) ListCategories(c fiber.Ctx) error {
	items, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryListResponse(items))
}

func (h *TaxonomyHandler) GetCategory(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cat, err := h.uc.GetCategory(c.Context(), id)
	if err != nil {
		if errors.Is(err, blog.ErrCategoryNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Category not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryResponse(cat))
}

func (h *TaxonomyHandler) ListTags(c fiber.Ctx) error {
	items, err := h.uc.ListTags(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTagListResponse(items))
}

func (h *TaxonomyHandler) GetTag(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tag, err := h.uc.GetTag(c.Context(), id)
	if err != nil {
		if errors.Is(err, blog.ErrTagNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Tag not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTagResponse(tag))
}
