package storage

import (
	"testing"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/stretchr/testify/assert"
)

func TestMatchUser(t *testing.T) {
	blake := &model.User{Name: "Blake"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"bl", true},
		{"BL", true},
		{"Bl", true},
		{"ake", true},
		{"julie", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchUser(blake, tt.query), "query %q", tt.query)
	}
}

func TestMatchPost(t *testing.T) {
	post := &model.Post{Title: "GraphQL 101", Body: "This is how to use GraphQL..."}

	assert.True(t, MatchPost(post, ""))
	assert.True(t, MatchPost(post, "101"))
	assert.True(t, MatchPost(post, "HOW TO"))
	assert.False(t, MatchPost(post, "music"))

	empty := &model.Post{Title: "Programming Music"}
	assert.True(t, MatchPost(empty, "music"))
	assert.False(t, MatchPost(empty, "graphql"))
}
