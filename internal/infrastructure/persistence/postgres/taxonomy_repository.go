package postgres

import (
	"context"

	"blog-api/internal/database"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaxonomyRepository struct {
	db database.DB
}

func NewTaxonomyRepository(db database.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]blog.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]blog.Category, 0)
	for rows.Next() {
		var c blog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaxonomyRepository) GetCategory(ctx context.Context, id uuid.UUID) (blog.Category, error) {
	var c blog.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return blog.Category{}, blog.ErrCategoryNotFound
		}
		return blog.Category{}, err
	}
	return c, nil
}

func (r *TaxonomyRepository) ListTags(ctx context.Context) ([]blog.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]blog.Tag, 0)
	for rows.Next() {
		var t blog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaxonomyRepository) GetTag(ctx context.Context, id uuid.UUID) (blog.Tag, error) {
	var t blog.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return blog.Tag{}, blog.ErrTagNotFound
		}
		return blog.Tag{}, err
	}
	return t, nil
}
