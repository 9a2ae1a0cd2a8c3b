package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"blog-api/internal/domain/account"
	"blog-api/internal/domain/blog"

	"github.com/google/uuid"
)

type fakePostRepo struct {
	posts map[uuid.UUID]blog.Post

	listCalls int
	listErr   error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]blog.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, p blog.Post) error {
	p.CreatedAt = time.Now()
	f.posts[p.ID] = p
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (blog.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return blog.Post{}, blog.ErrPostNotFound
	}
	return p, nil
}

func (f *fakePostRepo) List(_ context.Context, _ blog.PostFilter) ([]blog.Post, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]blog.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePostRepo) Update(_ context.Context, p blog.Post) error {
	if _, ok := f.posts[p.ID]; !ok {
		return blog.ErrPostNotFound
	}
	f.posts[p.ID] = p
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.posts[id]; !ok {
		return blog.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

type fakeProfileRepo struct {
	byAccount map[uuid.UUID]account.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byAccount: make(map[uuid.UUID]account.Profile)}
}

func (f *fakeProfileRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (account.Profile, error) {
	p, ok := f.byAccount[accountID]
	if !ok {
		return account.Profile{}, account.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p account.Profile) error {
	f.byAccount[p.AccountID] = p
	return nil
}

type fakeListCache struct {
	values map[string][]blog.Post

	invalidatedPatterns []string
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{values: make(map[string][]blog.Post)}
}

func (f *fakeListCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := f.values[key]
	if !ok {
		return false, nil
	}
	*(out.(*[]blog.Post)) = v
	return true, nil
}

func (f *fakeListCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.([]blog.Post)
	return nil
}

func (f *fakeListCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.invalidatedPatterns = append(f.invalidatedPatterns, pattern)
	f.values = make(map[string][]blog.Post)
	return nil
}

type fakeNotifier struct {
	posts    []blog.Post
	comments []blog.Comment
}

func (f *fakeNotifier) PostPublished(p blog.Post)   { f.posts = append(f.posts, p) }
func (f *fakeNotifier) CommentAdded(c blog.Comment) { f.comments = append(f.comments, c) }

type postFixture struct {
	uc       *Post
	posts    *fakePostRepo
	profiles *fakeProfileRepo
	cache    *fakeListCache
	notifier *fakeNotifier

	authorAccount uuid.UUID
	authorProfile uuid.UUID
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	posts := newFakePostRepo()
	profiles := newFakeProfileRepo()
	cache := newFakeListCache()
	notifier := &fakeNotifier{}

	accountID := uuid.New()
	prof := account.Profile{ID: uuid.New(), AccountID: accountID}
	profiles.byAccount[accountID] = prof

	return &postFixture{
		uc:            NewPostUsecase(posts, profiles, cache, notifier, nil),
		posts:         posts,
		profiles:      profiles,
		cache:         cache,
		notifier:      notifier,
		authorAccount: accountID,
		authorProfile: prof.ID,
	}
}

func (fx *postFixture) addReader() uuid.UUID {
	accountID := uuid.New()
	fx.profiles.byAccount[accountID] = account.Profile{ID: uuid.New(), AccountID: accountID}
	return accountID
}

func TestCreatePost_SetsCallerProfileAsAuthor(t *testing.T) {
	fx := newPostFixture(t)

	p, err := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{
		Title:   "Hello",
		Content: "World",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.AuthorID != fx.authorProfile {
		t.Fatalf("author = %s, want caller profile %s", p.AuthorID, fx.authorProfile)
	}
	if len(fx.notifier.posts) != 1 {
		t.Fatalf("expected publish notification, got %d", len(fx.notifier.posts))
	}
	if len(fx.cache.invalidatedPatterns) != 1 || fx.cache.invalidatedPatterns[0] != "posts:list:*" {
		t.Fatalf("list cache not invalidated: %v", fx.cache.invalidatedPatterns)
	}
}

func TestCreatePost_RequiresTitleAndContent(t *testing.T) {
	fx := newPostFixture(t)

	if _, err := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Content: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing title: %v", err)
	}
	if _, err := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing content: %v", err)
	}
}

func TestUpdatePost_GatedToAuthor(t *testing.T) {
	fx := newPostFixture(t)
	p, _ := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "t", Content: "c"})
	other := fx.addReader()

	title := "hijacked"
	_, err := fx.uc.UpdatePost(context.Background(), other, p.ID, UpdatePostInput{Title: &title})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author update: %v", err)
	}

	stored, _ := fx.posts.GetByID(context.Background(), p.ID)
	if stored.Title != "t" {
		t.Fatalf("post mutated by non-author")
	}

	updated, err := fx.uc.UpdatePost(context.Background(), fx.authorAccount, p.ID, UpdatePostInput{Title: &title})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Title != "hijacked" || updated.Content != "c" {
		t.Fatalf("partial update wrong: %+v", updated)
	}
}

func TestDeletePost_GatedToAuthor(t *testing.T) {
	fx := newPostFixture(t)
	p, _ := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "t", Content: "c"})
	other := fx.addReader()

	if err := fx.uc.DeletePost(context.Background(), other, p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete: %v", err)
	}
	if err := fx.uc.DeletePost(context.Background(), fx.authorAccount, p.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := fx.uc.GetPost(context.Background(), p.ID); !errors.Is(err, blog.ErrPostNotFound) {
		t.Fatalf("post still present: %v", err)
	}
}

func TestListPosts_UsesCache(t *testing.T) {
	fx := newPostFixture(t)
	if _, err := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	params := PostListParams{Search: "t", Limit: 10}
	if _, err := fx.uc.ListPosts(context.Background(), params); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := fx.uc.ListPosts(context.Background(), params); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if fx.posts.listCalls != 1 {
		t.Fatalf("repository hit %d times, want cached second read", fx.posts.listCalls)
	}

	// Equivalent params after normalization share a key.
	if _, err := fx.uc.ListPosts(context.Background(), PostListParams{Search: "  T ", Limit: 10}); err != nil {
		t.Fatalf("normalized list: %v", err)
	}
	if fx.posts.listCalls != 1 {
		t.Fatalf("normalized params missed the cache")
	}
}

func TestListPosts_WriteInvalidates(t *testing.T) {
	fx := newPostFixture(t)
	p, _ := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "t", Content: "c"})

	params := PostListParams{Limit: 10}
	if _, err := fx.uc.ListPosts(context.Background(), params); err != nil {
		t.Fatalf("list: %v", err)
	}

	title := "new title"
	if _, err := fx.uc.UpdatePost(context.Background(), fx.authorAccount, p.ID, UpdatePostInput{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	before := fx.posts.listCalls
	if _, err := fx.uc.ListPosts(context.Background(), params); err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if fx.posts.listCalls != before+1 {
		t.Fatalf("stale page served after write")
	}
}

func TestCreateComment_NotifiesAndGates(t *testing.T) {
	fx := newPostFixture(t)
	p, _ := fx.uc.CreatePost(context.Background(), fx.authorAccount, CreatePostInput{Title: "t", Content: "c"})

	comments := newFakeCommentRepo()
	cu := NewCommentUsecase(comments, fx.posts, fx.profiles, fx.notifier)

	reader := fx.addReader()
	c, err := cu.CreateComment(context.Background(), reader, p.ID, "nice post")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if len(fx.notifier.comments) != 1 {
		t.Fatalf("comment notification missing")
	}

	if err := cu.DeleteComment(context.Background(), fx.authorAccount, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author comment delete: %v", err)
	}
	if err := cu.DeleteComment(context.Background(), reader, c.ID); err != nil {
		t.Fatalf("author comment delete: %v", err)
	}
}

func TestCreateComment_UnknownPost(t *testing.T) {
	fx := newPostFixture(t)
	cu := NewCommentUsecase(newFakeCommentRepo(), fx.posts, fx.profiles, nil)

	_, err := cu.CreateComment(context.Background(), fx.authorAccount, uuid.New(), "hi")
	if !errors.Is(err, blog.ErrPostNotFound) {
		t.Fatalf("got %v", err)
	}
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]blog.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]blog.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, c blog.Comment) error {
	c.CreatedAt = time.Now()
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (blog.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return blog.Comment{}, blog.ErrCommentNotFound
	}
	return c, nil
}

func (f *fakeCommentRepo) ListByPost(_ context.Context, postID uuid.UUID, _, _ int) ([]blog.Comment, error) {
	out := make([]blog.Comment, 0)
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.comments[id]; !ok {
		return blog.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}
