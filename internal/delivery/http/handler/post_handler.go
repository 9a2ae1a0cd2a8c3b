package handler

import (
	"errors"
	"strconv"

	"blog-api/internal/delivery/http/dto"
	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/domain/blog"
	"blog-api/internal/pkg/response"
	"blog-api/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PostHandler struct {
	uc usecase.PostUsecase
}

type createPostRequest struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Categories []uuid.UUID `json:"categories"`
	Tags       []uuid.UUID `json:"tags"`
}

type updatePostRequest struct {
	Title      *string      `json:"title"`
	Content    *string      `json:"content"`
	Categories *[]uuid.UUID `json:"categories"`
	Tags       *[]uuid.UUID `json:"tags"`
}

func NewPostHandler(uc usecase.PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

func (h *PostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/posts", h.List)
	r.Get("/posts/:id", h.Get)
}

func (h *PostHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/posts", h.Create)
	r.Put("/posts/:id", h.Update)
	r.Delete("/posts/:id", h.Delete)
}

func (h *PostHandler) List(c fiber.Ctx) error {
	params := usecase.PostListParams{
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}

	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid category id", nil, err)
		}
		params.CategoryID = &id
	}
	if raw := c.Query("tag"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid tag id", nil, err)
		}
		params.TagID = &id
	}

	posts, err := h.uc.ListPosts(c.Context(), params)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPostListResponse(posts))
}

func (h *PostHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.GetPost(c.Context(), id)
	if err != nil {
		return mapPostUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPostResponse(p))
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createPostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.CreatePost(c.Context(), accountID, usecase.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.Categories,
		TagIDs:      req.Tags,
	})
	if err != nil {
		return mapPostUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewPostResponse(p))
}

func (h *PostHandler) Update(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.UpdatePost(c.Context(), accountID, id, usecase.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.Categories,
		TagIDs:      req.Tags,
	})
	if err != nil {
		return mapPostUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPostResponse(p))
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeletePost(c.Context(), accountID, id); err != nil {
		return mapPostUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapPostUsecaseError(err error) error {
	switch {
	case errors.Is(err, blog.ErrPostNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Post not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the author can modify this post", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func pathID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

func queryInt(c fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
