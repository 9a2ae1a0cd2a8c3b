package handler

import (
	"context"
	"errors"
	"mime/multipart"

	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/domain/account"
	"blog-api/internal/infrastructure/storage"
	"blog-api/internal/pkg/response"
	ucprofile "blog-api/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type profileUsecase interface {
	Get(ctx context.Context, accountID uuid.UUID) (map[string]any, string, error)
	Update(ctx context.Context, accountID uuid.UUID, in ucprofile.UpdateInput) (map[string]any, error)
}

type ProfileHandler struct {
	uc profileUsecase
}

func NewProfileHandler(uc profileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.Get)
	r.Post("/profile", h.Update)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	data, username, err := h.uc.Get(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusBadRequest, "You have a problem with your profile please contact support", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, "Profile data retrieved successfully", map[string]any{
		"profile":  data,
		"username": username,
	})
}

// Update handles the multipart profile form. Absent fields stay untouched;
// present fields, including empty ones, overwrite.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.CtxAccountIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := ucprofile.UpdateInput{
		Bio:                 formValue(form, "bio"),
		FirstName:           formValue(form, "first_name"),
		LastName:            formValue(form, "last_name"),
		RequestedNameFields: []string{"first_name", "last_name"},
	}

	if fhs := form.File["profile_picture"]; len(fhs) > 0 {
		fh := fhs[0]
		f, err := fh.Open()
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Error saving profile data", nil, err)
		}
		defer f.Close()

		in.Picture = &ucprofile.ImageUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		}
	}

	data, err := h.uc.Update(c.Context(), accountID, in)
	if err != nil {
		return mapProfileUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Profile data saved successfully", data)
}

func mapProfileUsecaseError(err error) error {
	var verr *ucprofile.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Error saving profile data", verr.Fields, err)
	}

	var uerr *ucprofile.UploadError
	if errors.As(err, &uerr) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Error uploading profile image", nil, err)
	}

	var perr *ucprofile.PersistError
	if errors.As(err, &perr) {
		return middleware.NewAppError(fiber.StatusBadRequest, "Error saving profile data", nil, err)
	}

	switch {
	case errors.Is(err, storage.ErrNoCredentials):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	case errors.Is(err, account.ErrNotFound):
		return middleware.NewAppError(fiber.StatusBadRequest, "You have a problem with your profile please contact support", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func formValue(form *multipart.Form, name string) *string {
	vals, ok := form.Value[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}
