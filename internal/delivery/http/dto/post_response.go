package dto

import (
	"time"

	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
)

type PostResponse struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	AuthorID   uuid.UUID   `json:"author"`
	Categories []uuid.UUID `json:"categories"`
	Tags       []uuid.UUID `json:"tags"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func NewPostResponse(p blog.Post) PostResponse {
	categories := p.CategoryIDs
	if categories == nil {
		categories = []uuid.UUID{}
	}
	tags := p.TagIDs
	if tags == nil {
		tags = []uuid.UUID{}
	}
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.AuthorID,
		Categories: categories,
		Tags:       tags,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewPostListResponse(posts []blog.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}
