package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.70

import (
	"context"

	"github.com/VitaminP8/blogql/graph/generated"
	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/dataloader"
	"github.com/VitaminP8/blogql/internal/subscription"
	"go.uber.org/zap"
)

// Author is the resolver for the author field.
func (r *commentResolver) Author(ctx context.Context, obj *model.Comment) (*model.User, error) {
	return dataloader.LoadUser(ctx, r.UserStore, obj.AuthorID)
}

// Post is the resolver for the post field.
func (r *commentResolver) Post(ctx context.Context, obj *model.Comment) (*model.Post, error) {
	return dataloader.LoadPost(ctx, r.PostStore, obj.PostID)
}

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, data model.CreateUserInput) (*model.User, error) {
	return r.UserStore.CreateUser(ctx, data)
}

// DeleteUser is the resolver for the deleteUser field.
func (r *mutationResolver) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	return r.UserStore.DeleteUser(ctx, id)
}

// UpdateUser is the resolver for the updateUser field.
func (r *mutationResolver) UpdateUser(ctx context.Context, id string, data model.UpdateUserInput) (*model.User, error) {
	return r.UserStore.UpdateUser(ctx, id, data)
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, data model.CreatePostInput) (*model.Post, error) {
	post, err := r.PostStore.CreatePost(ctx, data)
	if err != nil {
		return nil, err
	}

	if post.Published {
		r.PostFeed.Publish(subscription.PostTopic, post)
		r.log().Debug("post published", zap.String("post", post.ID))
	}

	return post, nil
}

// DeletePost is the resolver for the deletePost field.
func (r *mutationResolver) DeletePost(ctx context.Context, id string) (*model.Post, error) {
	return r.PostStore.DeletePost(ctx, id)
}

// UpdatePost is the resolver for the updatePost field.
// Publishing a post through an update does not notify subscribers.
func (r *mutationResolver) UpdatePost(ctx context.Context, id string, data model.UpdatePostInput) (*model.Post, error) {
	return r.PostStore.UpdatePost(ctx, id, data)
}

// CreateComment is the resolver for the createComment field.
func (r *mutationResolver) CreateComment(ctx context.Context, data model.CreateCommentInput) (*model.Comment, error) {
	comment, err := r.CommentStore.CreateComment(ctx, data)
	if err != nil {
		return nil, err
	}

	r.CommentFeed.Publish(subscription.CommentTopic(comment.PostID), comment)
	r.log().Debug("comment published", zap.String("comment", comment.ID), zap.String("post", comment.PostID))

	return comment, nil
}

// DeleteComment is the resolver for the deleteComment field.
func (r *mutationResolver) DeleteComment(ctx context.Context, id string) (*model.Comment, error) {
	return r.CommentStore.DeleteComment(ctx, id)
}

// UpdateComment is the resolver for the updateComment field.
func (r *mutationResolver) UpdateComment(ctx context.Context, id string, data model.UpdateCommentInput) (*model.Comment, error) {
	return r.CommentStore.UpdateComment(ctx, id, data)
}

// Author is the resolver for the author field.
func (r *postResolver) Author(ctx context.Context, obj *model.Post) (*model.User, error) {
	return dataloader.LoadUser(ctx, r.UserStore, obj.AuthorID)
}

// Comments is the resolver for the comments field.
func (r *postResolver) Comments(ctx context.Context, obj *model.Post) ([]*model.Comment, error) {
	return r.CommentStore.GetCommentsByPost(ctx, obj.ID)
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context, query *string) ([]*model.User, error) {
	return r.UserStore.GetUsers(ctx, deref(query))
}

// Posts is the resolver for the posts field.
func (r *queryResolver) Posts(ctx context.Context, query *string) ([]*model.Post, error) {
	return r.PostStore.GetPosts(ctx, deref(query))
}

// Comments is the resolver for the comments field.
func (r *queryResolver) Comments(ctx context.Context) ([]*model.Comment, error) {
	return r.CommentStore.GetComments(ctx)
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, id string) (*model.User, error) {
	return orNil(r.UserStore.GetUserByID(ctx, id))
}

// Post is the resolver for the post field.
func (r *queryResolver) Post(ctx context.Context, id string) (*model.Post, error) {
	return orNil(r.PostStore.GetPostByID(ctx, id))
}

// Comment is the resolver for the comment field.
func (r *queryResolver) Comment(ctx context.Context, id string) (*model.Comment, error) {
	return orNil(r.CommentStore.GetCommentByID(ctx, id))
}

// Post is the resolver for the post field.
func (r *subscriptionResolver) Post(ctx context.Context) (<-chan *model.Post, error) {
	ch, cancel := r.PostFeed.Subscribe(subscription.PostTopic)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, nil
}

// Comment is the resolver for the comment field.
func (r *subscriptionResolver) Comment(ctx context.Context, postID string) (<-chan *model.Comment, error) {
	if _, err := r.PostStore.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	ch, cancel := r.CommentFeed.Subscribe(subscription.CommentTopic(postID))
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, nil
}

// Posts is the resolver for the posts field.
func (r *userResolver) Posts(ctx context.Context, obj *model.User) ([]*model.Post, error) {
	return r.PostStore.GetPostsByAuthor(ctx, obj.ID)
}

// Comments is the resolver for the comments field.
func (r *userResolver) Comments(ctx context.Context, obj *model.User) ([]*model.Comment, error) {
	return r.CommentStore.GetCommentsByAuthor(ctx, obj.ID)
}

// Comment returns generated.CommentResolver implementation.
func (r *Resolver) Comment() generated.CommentResolver { return &commentResolver{r} }

// Mutation returns generated.MutationResolver implementation.
func (r *Resolver) Mutation() generated.MutationResolver { return &mutationResolver{r} }

// Post returns generated.PostResolver implementation.
func (r *Resolver) Post() generated.PostResolver { return &postResolver{r} }

// Query returns generated.QueryResolver implementation.
func (r *Resolver) Query() generated.QueryResolver { return &queryResolver{r} }

// Subscription returns generated.SubscriptionResolver implementation.
func (r *Resolver) Subscription() generated.SubscriptionResolver { return &subscriptionResolver{r} }

// User returns generated.UserResolver implementation.
func (r *Resolver) User() generated.UserResolver { return &userResolver{r} }

type commentResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
