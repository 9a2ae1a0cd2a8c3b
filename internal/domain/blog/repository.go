package blog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
)

// PostFilter narrows a post listing. Search matches title and content;
// CategoryID and TagID require membership in the respective relation.
type PostFilter struct {
	Search     string
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Limit      int
	Offset     int
}

type PostRepository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	List(ctx context.Context, filter PostFilter) ([]Post, error)
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, c Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (Category, error)
	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (Tag, error)
}
