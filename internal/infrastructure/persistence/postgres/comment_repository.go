package postgres

import (
	"context"

	"blog-api/internal/database"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommentRepository struct {
	db database.DB
}

func NewCommentRepository(db database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c blog.Comment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO comments (id, post_id, author_id, content) VALUES ($1, $2, $3, $4)`,
		c.ID, c.PostID, c.AuthorID, c.Content,
	)
	return err
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (blog.Comment, error) {
	var c blog.Comment
	err := r.db.QueryRow(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return blog.Comment{}, blog.ErrCommentNotFound
		}
		return blog.Comment{}, err
	}
	return c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]blog.Comment, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, post_id, author_id, content, created_at
		 FROM comments WHERE post_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		postID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]blog.Comment, 0)
	for rows.Next() {
		var c blog.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return blog.ErrCommentNotFound
	}
	return nil
}
