package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const postsListCachePrefix = "posts:list:"

type postsListCacheKeyInput struct {
	Search     string `json:"search"`
	CategoryID string `json:"category_id"`
	TagID      string `json:"tag_id"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// PostsListCacheKey derives a stable cache key from normalized listing
// parameters. All keys share the postsListCachePrefix so writes can
// invalidate every cached page at once.
func PostsListCacheKey(params PostListParams) string {
	in := postsListCacheKeyInput{
		Search: normalizeSearchValue(params.Search),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.CategoryID != nil {
		in.CategoryID = params.CategoryID.String()
	}
	if params.TagID != nil {
		in.TagID = params.TagID.String()
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return postsListCachePrefix + hex.EncodeToString(sum[:])
}
