package usecase

import (
	"context"
	"errors"

	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
)

type TaxonomyUsecase interface {
	ListCategories(ctx context.Context) ([]blog.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (blog.Category, error)
	ListTags(ctx context.Context) ([]blog.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (blog.Tag, error)
}

type Taxonomy struct {
	repo blog.TaxonomyRepository
}

func NewTaxonomyUsecase(repo blog.TaxonomyRepository) *Taxonomy {
	return &Taxonomy{repo: repo}
}

func (u *Taxonomy) ListCategories(ctx context.Context) ([]blog.Category, error) {
	items, err := u.repo.ListCategories(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Taxonomy) GetCategory(ctx context.Context, id uuid.UUID) (blog.Category, error) {
	c, err := u.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, blog.ErrCategoryNotFound) {
			return blog.Category{}, err
		}
		return blog.Category{}, ErrInternal
	}
	return c, nil
}

func (u *Taxonomy) ListTags(ctx context.Context) ([]blog.Tag, error) {
	items, err := u.repo.ListTags(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Taxonomy) GetTag(ctx context.Context, id uuid.UUID) (blog.Tag, error) {
	t, err := u.repo.GetTag(ctx, id)
	if err != nil {
		if errors.Is(err, blog.ErrTagNotFound) {
			return blog.Tag{}, err
		}
		return blog.Tag{}, ErrInternal
	}
	return t, nil
}
