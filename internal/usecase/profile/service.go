package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"blog-api/internal/domain/account"
	"blog-api/internal/infrastructure/storage"
	"blog-api/internal/projection"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxBioLength  = 2000
	maxNameLength = 150

	// PictureURLTTL is one week minus one second, the retrieval window
	// promised to clients.
	PictureURLTTL = 604799 * time.Second

	pictureKeyPrefix = "profile/"
)

var supportedImageSubtypes = []string{"jpg", "jpeg", "png", "svg"}

var ErrInternal = errors.New("internal error")

// ImageUpload is the ephemeral uploaded artifact: content plus the declared
// filename. The declared name is never trusted for type detection.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// UpdateInput is a partial profile update. Nil pointers mean "leave as is".
type UpdateInput struct {
	Bio       *string
	FirstName *string
	LastName  *string
	Picture   *ImageUpload

	// RequestedNameFields controls whether first_name/last_name are echoed
	// back in the returned projection.
	RequestedNameFields []string
}

// Service coordinates profile updates spanning the profile itself, its
// linked account, and the object store holding picture bytes.
type Service struct {
	accounts account.Repository
	profiles account.ProfileRepository
	store    storage.ObjectStorage
	logger   *log.Logger
}

func NewService(accounts account.Repository, profiles account.ProfileRepository, store storage.ObjectStorage, logger *log.Logger) *Service {
	return &Service{accounts: accounts, profiles: profiles, store: store, logger: logger}
}

// Get returns the projected profile of an account plus its username.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (map[string]any, string, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", ErrInternal
	}
	prof, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", ErrInternal
	}

	data := ProjectProfile(prof, acct, projection.Options{
		Exclude: []string{"account"},
		Context: projection.Context{"requested_fields": []string{"first_name", "last_name"}},
	})
	return data, acct.Username, nil
}

// Update validates and applies a partial update to a profile and its linked
// account as one logical operation.
//
// All validation errors are collected before anything is mutated or uploaded.
// A picture, when present, is uploaded before either entity is persisted; a
// storage failure therefore leaves both entities untouched. The account is
// saved before the profile; if the profile save then fails, the account's
// previous names are restored and the failure is reported as partial.
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, in UpdateInput) (map[string]any, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}
	prof, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}

	if verr := s.validate(in); verr != nil {
		return nil, verr
	}

	// The storage key depends on the effective name, so resolve it before
	// any upload.
	firstName := acct.FirstName
	if in.FirstName != nil {
		firstName = strings.TrimSpace(*in.FirstName)
	}
	lastName := acct.LastName
	if in.LastName != nil {
		lastName = strings.TrimSpace(*in.LastName)
	}

	if in.Picture != nil {
		url, err := s.uploadPicture(ctx, in.Picture, firstName, lastName)
		if err != nil {
			return nil, err
		}
		prof.PictureURL = url
	}

	accountSaved := false
	prevFirst, prevLast := acct.FirstName, acct.LastName
	if in.FirstName != nil || in.LastName != nil {
		acct.FirstName = firstName
		acct.LastName = lastName
		if err := s.accounts.Update(ctx, acct); err != nil {
			return nil, &PersistError{Cause: err}
		}
		accountSaved = true
	}

	if in.Bio != nil {
		prof.Bio = *in.Bio
	}
	if err := s.profiles.Update(ctx, prof); err != nil {
		if accountSaved {
			acct.FirstName, acct.LastName = prevFirst, prevLast
			if rerr := s.accounts.Update(ctx, acct); rerr != nil && s.logger != nil {
				s.logger.Printf("profile update: account name revert failed account_id=%s err=%v", acct.ID, rerr)
			}
			return nil, &PersistError{Partial: true, Cause: err}
		}
		return nil, &PersistError{Cause: err}
	}

	acct.FirstName, acct.LastName = firstName, lastName
	data := ProjectProfile(prof, acct, projection.Options{
		Exclude: []string{"account"},
		Context: projection.Context{"requested_fields": in.RequestedNameFields},
	})
	return data, nil
}

// validate checks the whole payload and reports every problem at once.
// Nothing is mutated and nothing is uploaded while validating.
func (s *Service) validate(in UpdateInput) *ValidationError {
	verr := &ValidationError{}

	if in.Picture != nil {
		mt, err := sniffImage(in.Picture.Content)
		if err != nil {
			verr.add("profile_picture", "could not read image content")
		} else if !isSupportedImage(imageSubtype(mt)) {
			verr.add("profile_picture", fmt.Sprintf("only image files with extensions %v allowed", supportedImageSubtypes))
		}
	}

	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > MaxBioLength {
		verr.add("bio", fmt.Sprintf("must be at most %d characters", MaxBioLength))
	}
	if in.FirstName != nil && utf8.RuneCountInString(*in.FirstName) > maxNameLength {
		verr.add("first_name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	if in.LastName != nil && utf8.RuneCountInString(*in.LastName) > maxNameLength {
		verr.add("last_name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// uploadPicture sniffs the artifact a second time (the buffer may have been
// re-read since validation), writes it to object storage under a name derived
// from the effective account name, and returns a presigned retrieval URL.
func (s *Service) uploadPicture(ctx context.Context, pic *ImageUpload, firstName, lastName string) (string, error) {
	mt, err := sniffImage(pic.Content)
	if err != nil {
		return "", &UploadError{Cause: err}
	}

	key := fmt.Sprintf("%s%s_%s_profile.%s",
		pictureKeyPrefix,
		strings.ToLower(firstName),
		strings.ToLower(lastName),
		imageSubtype(mt),
	)

	if err := s.store.Upload(ctx, key, pic.Content, pic.Size, mt.String()); err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return "", err
		}
		return "", &UploadError{Cause: err}
	}

	url, err := s.store.PresignGet(ctx, key, PictureURLTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNoCredentials) {
			return "", err
		}
		return "", &UploadError{Cause: err}
	}
	return url, nil
}

// sniffImage detects the MIME type from content and restores the read
// position, so the artifact can be read again by later stages.
func sniffImage(r io.ReadSeeker) (*mimetype.MIME, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return mt, nil
}

// imageSubtype maps "image/svg+xml" to "svg", "image/png" to "png", etc.
func imageSubtype(mt *mimetype.MIME) string {
	sub := mt.String()
	if i := strings.Index(sub, "/"); i >= 0 {
		sub = sub[i+1:]
	}
	if i := strings.Index(sub, "+"); i >= 0 {
		sub = sub[:i]
	}
	return sub
}

func isSupportedImage(subtype string) bool {
	for _, s := range supportedImageSubtypes {
		if s == subtype {
			return true
		}
	}
	return false
}
