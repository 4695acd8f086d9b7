package storage

import (
	"strings"

	"github.com/VitaminP8/blogql/graph/model"
)

// MatchUser reports whether the user's name contains query, ignoring case.
// An empty query matches every user.
func MatchUser(u *model.User, query string) bool {
	if query == "" {
		return true
	}
	return containsFold(u.Name, query)
}

// MatchPost reports whether the post's title or body contains query,
// ignoring case. An empty query matches every post.
func MatchPost(p *model.Post, query string) bool {
	if query == "" {
		return true
	}
	return containsFold(p.Title, query) || containsFold(p.Body, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
