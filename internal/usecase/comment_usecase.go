package usecase

import (
	"context"
	"errors"
	"strings"

	"blog-api/internal/domain/account"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
)

type CommentUsecase interface {
	ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]blog.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (blog.Comment, error)
	CreateComment(ctx context.Context, accountID, postID uuid.UUID, content string) (blog.Comment, error)
	DeleteComment(ctx context.Context, accountID, commentID uuid.UUID) error
}

type Comment struct {
	comments blog.CommentRepository
	posts    blog.PostRepository
	profiles account.ProfileRepository
	notifier Notifier
}

func NewCommentUsecase(comments blog.CommentRepository, posts blog.PostRepository, profiles account.ProfileRepository, notifier Notifier) *Comment {
	return &Comment{comments: comments, posts: posts, profiles: profiles, notifier: notifier}
}

func (u *Comment) ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]blog.Comment, error) {
	if _, err := u.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}

	items, err := u.comments.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Comment) GetComment(ctx context.Context, id uuid.UUID) (blog.Comment, error) {
	c, err := u.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, blog.ErrCommentNotFound) {
			return blog.Comment{}, err
		}
		return blog.Comment{}, ErrInternal
	}
	return c, nil
}

func (u *Comment) CreateComment(ctx context.Context, accountID, postID uuid.UUID, content string) (blog.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return blog.Comment{}, ErrInvalidInput
	}

	if _, err := u.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.Comment{}, err
		}
		return blog.Comment{}, ErrInternal
	}

	prof, err := u.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return blog.Comment{}, ErrUnauthorized
		}
		return blog.Comment{}, ErrInternal
	}

	c := blog.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: prof.ID,
		Content:  content,
	}
	if err := u.comments.Create(ctx, c); err != nil {
		return blog.Comment{}, ErrInternal
	}

	created, err := u.comments.GetByID(ctx, c.ID)
	if err != nil {
		return blog.Comment{}, ErrInternal
	}

	if u.notifier != nil {
		u.notifier.CommentAdded(created)
	}
	return created, nil
}

func (u *Comment) DeleteComment(ctx context.Context, accountID, commentID uuid.UUID) error {
	c, err := u.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, blog.ErrCommentNotFound) {
			return err
		}
		return ErrInternal
	}

	prof, err := u.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrUnauthorized
		}
		return ErrInternal
	}
	if c.AuthorID != prof.ID {
		return ErrForbidden
	}

	if err := u.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, blog.ErrCommentNotFound) {
			return err
		}
		return ErrInternal
	}
	return nil
}
