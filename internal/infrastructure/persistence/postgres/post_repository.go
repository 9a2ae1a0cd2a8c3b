package postgres

import (
	"context"
	"strconv"
	"strings"

	"blog-api/internal/database"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostRepository struct {
	db database.DB
}

func NewPostRepository(db database.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p blog.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO posts (id, title, content, author_id) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Title, p.Content, p.AuthorID,
	); err != nil {
		return err
	}

	if err := replaceRelations(ctx, tx, p.ID, p.CategoryIDs, p.TagIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (blog.Post, error) {
	row := r.db.QueryRow(ctx, postSelect+` WHERE p.id = $1 GROUP BY p.id`, id)
	p, err := scanPost(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return blog.Post{}, blog.ErrPostNotFound
		}
		return blog.Post{}, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context, filter blog.PostFilter) ([]blog.Post, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		ph := arg("%" + s + "%")
		where = append(where, "(p.title ILIKE "+ph+" OR p.content ILIKE "+ph+")")
	}
	if filter.CategoryID != nil {
		ph := arg(*filter.CategoryID)
		where = append(where, "EXISTS (SELECT 1 FROM post_categories x WHERE x.post_id = p.id AND x.category_id = "+ph+")")
	}
	if filter.TagID != nil {
		ph := arg(*filter.TagID)
		where = append(where, "EXISTS (SELECT 1 FROM post_tags x WHERE x.post_id = p.id AND x.tag_id = "+ph+")")
	}

	q := postSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " GROUP BY p.id ORDER BY p.created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	q += " LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]blog.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostRepository) Update(ctx context.Context, p blog.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, updated_at = now() WHERE id = $1`,
		p.ID, p.Title, p.Content,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return blog.ErrPostNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
		return err
	}
	if err := replaceRelations(ctx, tx, p.ID, p.CategoryIDs, p.TagIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return blog.ErrPostNotFound
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
	       COALESCE(array_agg(DISTINCT pc.category_id::text) FILTER (WHERE pc.category_id IS NOT NULL), '{}'),
	       COALESCE(array_agg(DISTINCT pt.tag_id::text) FILTER (WHERE pt.tag_id IS NOT NULL), '{}')
	FROM posts p
	LEFT JOIN post_categories pc ON pc.post_id = p.id
	LEFT JOIN post_tags pt ON pt.post_id = p.id`

func scanPost(row database.Row) (blog.Post, error) {
	var (
		p          blog.Post
		categories []string
		tags       []string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt, &categories, &tags); err != nil {
		return blog.Post{}, err
	}

	var err error
	if p.CategoryIDs, err = parseIDs(categories); err != nil {
		return blog.Post{}, err
	}
	if p.TagIDs, err = parseIDs(tags); err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func replaceRelations(ctx context.Context, tx database.Tx, postID uuid.UUID, categoryIDs, tagIDs []uuid.UUID) error {
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, cid,
		); err != nil {
			return err
		}
	}
	for _, tid := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tid,
		); err != nil {
			return err
		}
	}
	return nil
}
