package handler

import (
	"errors"

	"blog-api/internal/delivery/http/dto"
	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/domain/blog"
	"blog-api/internal/pkg/response"
	"blog-api/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CommentHandler struct {
	uc usecase.CommentUsecase
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func NewCommentHandler(uc usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

func (h *CommentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/posts/:id/comments", h.ListByPost)
	r.Get("/comments/:id", h.Get)
}

func (h *CommentHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/posts/:id/comments", h.Create)
	r.Delete("/comments/:id", h.Delete)
}

func (h *CommentHandler) ListByPost(c fiber.Ctx) error {
	postID, err := pathID(c)
	if err != nil {
		return err
	}

	comments, err := h.uc.ListComments(c.Context(), postID, queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		return mapCommentUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCommentListResponse(comments))
}

func (h *CommentHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cm, err := h.uc.GetComment(c.Context(), id)
	if err != nil {
		return mapCommentUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCommentResponse(cm))
}

func (h *CommentHandler) Create(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	postID, err := pathID(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cm, err := h.uc.CreateComment(c.Context(), accountID, postID, req.Content)
	if err != nil {
		return mapCommentUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewCommentResponse(cm))
}

func (h *CommentHandler) Delete(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteComment(c.Context(), accountID, id); err != nil {
		return mapCommentUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapCommentUsecaseError(err error) error {
	switch {
	case errors.Is(err, blog.ErrPostNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Post not found", nil, err)
	case errors.Is(err, blog.ErrCommentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Comment not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the author can delete this comment", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
