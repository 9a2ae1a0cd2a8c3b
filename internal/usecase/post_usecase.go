package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"blog-api/internal/domain/account"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("caller is not the author")
)

const postsListCacheTTL = 60 * time.Second

// ListCache holds post list pages briefly. Every write to posts drops the
// whole prefix, so a stale page lives at most postsListCacheTTL.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Notifier fans out content events to connected clients. Implementations
// must not block.
type Notifier interface {
	PostPublished(p blog.Post)
	CommentAdded(c blog.Comment)
}

type PostListParams struct {
	Search     string
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Limit      int
	Offset     int
}

type CreatePostInput struct {
	Title       string
	Content     string
	CategoryIDs []uuid.UUID
	TagIDs      []uuid.UUID
}

// UpdatePostInput is partial. Nil means "leave as is"; an empty non-nil
// slice clears the relation.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	CategoryIDs *[]uuid.UUID
	TagIDs      *[]uuid.UUID
}

type PostUsecase interface {
	ListPosts(ctx context.Context, params PostListParams) ([]blog.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (blog.Post, error)
	CreatePost(ctx context.Context, accountID uuid.UUID, in CreatePostInput) (blog.Post, error)
	UpdatePost(ctx context.Context, accountID, postID uuid.UUID, in UpdatePostInput) (blog.Post, error)
	DeletePost(ctx context.Context, accountID, postID uuid.UUID) error
}

type Post struct {
	posts    blog.PostRepository
	profiles account.ProfileRepository
	cache    ListCache
	notifier Notifier
	logger   *log.Logger
}

func NewPostUsecase(posts blog.PostRepository, profiles account.ProfileRepository, cache ListCache, notifier Notifier, logger *log.Logger) *Post {
	return &Post{posts: posts, profiles: profiles, cache: cache, notifier: notifier, logger: logger}
}

func (u *Post) ListPosts(ctx context.Context, params PostListParams) ([]blog.Post, error) {
	key := PostsListCacheKey(params)

	var cached []blog.Post
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	items, err := u.posts.List(ctx, blog.PostFilter{
		Search:     params.Search,
		CategoryID: params.CategoryID,
		TagID:      params.TagID,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, postsListCacheTTL); err != nil && u.logger != nil {
			u.logger.Printf("post list: cache write failed key=%s err=%v", key, err)
		}
	}
	return items, nil
}

func (u *Post) GetPost(ctx context.Context, id uuid.UUID) (blog.Post, error) {
	p, err := u.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.Post{}, err
		}
		return blog.Post{}, ErrInternal
	}
	return p, nil
}

func (u *Post) CreatePost(ctx context.Context, accountID uuid.UUID, in CreatePostInput) (blog.Post, error) {
	if in.Title == "" || in.Content == "" {
		return blog.Post{}, ErrInvalidInput
	}

	prof, err := u.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return blog.Post{}, ErrUnauthorized
		}
		return blog.Post{}, ErrInternal
	}

	p := blog.Post{
		ID:          uuid.New(),
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    prof.ID,
		CategoryIDs: in.CategoryIDs,
		TagIDs:      in.TagIDs,
	}
	if err := u.posts.Create(ctx, p); err != nil {
		return blog.Post{}, ErrInternal
	}

	created, err := u.posts.GetByID(ctx, p.ID)
	if err != nil {
		return blog.Post{}, ErrInternal
	}

	u.invalidateLists(ctx)
	if u.notifier != nil {
		u.notifier.PostPublished(created)
	}
	return created, nil
}

func (u *Post) UpdatePost(ctx context.Context, accountID, postID uuid.UUID, in UpdatePostInput) (blog.Post, error) {
	p, err := u.authoredPost(ctx, accountID, postID)
	if err != nil {
		return blog.Post{}, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return blog.Post{}, ErrInvalidInput
		}
		p.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return blog.Post{}, ErrInvalidInput
		}
		p.Content = *in.Content
	}
	if in.CategoryIDs != nil {
		p.CategoryIDs = *in.CategoryIDs
	}
	if in.TagIDs != nil {
		p.TagIDs = *in.TagIDs
	}

	if err := u.posts.Update(ctx, p); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.Post{}, err
		}
		return blog.Post{}, ErrInternal
	}

	u.invalidateLists(ctx)
	return p, nil
}

func (u *Post) DeletePost(ctx context.Context, accountID, postID uuid.UUID) error {
	if _, err := u.authoredPost(ctx, accountID, postID); err != nil {
		return err
	}

	if err := u.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return err
		}
		return ErrInternal
	}

	u.invalidateLists(ctx)
	return nil
}

// authoredPost loads a post and verifies the caller's profile owns it.
func (u *Post) authoredPost(ctx context.Context, accountID, postID uuid.UUID) (blog.Post, error) {
	p, err := u.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return blog.Post{}, err
		}
		return blog.Post{}, ErrInternal
	}

	prof, err := u.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return blog.Post{}, ErrUnauthorized
		}
		return blog.Post{}, ErrInternal
	}
	if p.AuthorID != prof.ID {
		return blog.Post{}, ErrForbidden
	}
	return p, nil
}

func (u *Post) invalidateLists(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, postsListCachePrefix+"*"); err != nil && u.logger != nil {
		u.logger.Printf("post list: cache invalidation failed err=%v", err)
	}
}
