package blog

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID
	Title       string
	Content     string
	AuthorID    uuid.UUID // profile id
	CategoryIDs []uuid.UUID
	TagIDs      []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID // profile id
	Content   string
	CreatedAt time.Time
}

type Category struct {
	ID   uuid.UUID
	Name string
	Slug string
}

type Tag struct {
	ID   uuid.UUID
	Name string
	Slug string
}
