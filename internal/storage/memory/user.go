package memory

import (
	"context"
	"slices"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/VitaminP8/blogql/internal/storage"
	"go.uber.org/zap"
)

func (s *MemoryStorage) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(input.Email, "") {
		return nil, storage.NewConflict(storage.EntityUser, "email", input.Email)
	}

	user := &model.User{
		ID:    s.newID(),
		Name:  input.Name,
		Email: input.Email,
	}
	if input.Age != nil {
		age := *input.Age
		user.Age = &age
	}

	s.users = append(s.users, user)
	return copyUser(user), nil
}

func (s *MemoryStorage) UpdateUser(ctx context.Context, id string, input model.UpdateUserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityUser, id)
	}

	email, setEmail := model.Present(input.Email)
	if setEmail && s.emailTaken(email, id) {
		return nil, storage.NewConflict(storage.EntityUser, "email", email)
	}

	// validation is done, from here on the patch always applies
	user := s.users[i]
	if setEmail {
		user.Email = email
	}
	if name, ok := model.Present(input.Name); ok {
		user.Name = name
	}
	if input.Age.IsSet() {
		user.Age = nil
		if age := input.Age.Value(); age != nil {
			v := *age
			user.Age = &v
		}
	}

	return copyUser(user), nil
}

// DeleteUser removes the user, every post they wrote together with the
// comments on those posts, and every comment they wrote anywhere.
func (s *MemoryStorage) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityUser, id)
	}
	deleted := s.users[i]
	s.users = slices.Delete(s.users, i, i+1)

	removedPosts := make(map[string]struct{})
	keptPosts := s.posts[:0]
	for _, p := range s.posts {
		if p.AuthorID == id {
			removedPosts[p.ID] = struct{}{}
			continue
		}
		keptPosts = append(keptPosts, p)
	}
	clear(s.posts[len(keptPosts):])
	s.posts = keptPosts

	before := len(s.comments)
	keptComments := s.comments[:0]
	for _, c := range s.comments {
		if _, onRemovedPost := removedPosts[c.PostID]; onRemovedPost || c.AuthorID == id {
			continue
		}
		keptComments = append(keptComments, c)
	}
	clear(s.comments[len(keptComments):])
	s.comments = keptComments

	s.log.Debug("user deleted",
		zap.String("id", id),
		zap.Int("posts", len(removedPosts)),
		zap.Int("comments", before-len(keptComments)),
	)

	return deleted, nil
}

func (s *MemoryStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.userIndex(id)
	if i == -1 {
		return nil, storage.NewNotFound(storage.EntityUser, id)
	}
	return copyUser(s.users[i]), nil
}

// GetUsersByIDs returns the users found among ids, keyed by id. Missing ids
// are simply absent from the map.
func (s *MemoryStorage) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	result := make(map[string]*model.User, len(ids))
	for _, u := range s.users {
		if _, ok := wanted[u.ID]; ok {
			result[u.ID] = copyUser(u)
		}
	}
	return result, nil
}

func (s *MemoryStorage) GetUsers(ctx context.Context, query string) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		if storage.MatchUser(u, query) {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

// emailTaken reports whether a user other than exceptID holds email.
func (s *MemoryStorage) emailTaken(email, exceptID string) bool {
	for _, u := range s.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}
