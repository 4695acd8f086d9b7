package subscription

type Manager[T any] interface {
	Subscribe(topic string) (<-chan T, func())
	Publish(topic string, msg T)
}

// PostTopic carries newly published posts.
const PostTopic = "post"

// CommentTopic carries new comments on a single post.
func CommentTopic(postID string) string {
	return "comment:" + postID
}
