package ws

import (
	"encoding/json"
	"time"

	"blog-api/internal/domain/blog"
)

type PostPublishedEvent struct {
	Type      string `json:"type"`
	PostID    string `json:"post_id"`
	Title     string `json:"title"`
	AuthorID  string `json:"author_id"`
	Timestamp string `json:"timestamp"`
}

type CommentAddedEvent struct {
	Type      string `json:"type"`
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	Timestamp string `json:"timestamp"`
}

// Notifier turns content events into broadcast frames. A nil hub makes every
// notification a no-op.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) PostPublished(p blog.Post) {
	if n == nil {
		return
	}
	evt := PostPublishedEvent{
		Type:      "post_published",
		PostID:    p.ID.String(),
		Title:     p.Title,
		AuthorID:  p.AuthorID.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}

func (n *Notifier) CommentAdded(c blog.Comment) {
	if n == nil {
		return
	}
	evt := CommentAddedEvent{
		Type:      "comment_added",
		CommentID: c.ID.String(),
		PostID:    c.PostID.String(),
		AuthorID:  c.AuthorID.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
