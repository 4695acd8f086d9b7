package subscription

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/blogql/graph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentManager() *SubscriptionManager[*model.Comment] {
	return NewSubscriptionManager[*model.Comment](DefaultBuffer, nil)
}

func TestCommentTopic(t *testing.T) {
	assert.Equal(t, "comment:42", CommentTopic("42"))
	assert.NotEqual(t, PostTopic, CommentTopic(""))
}

func TestSubscriptionManager_Subscribe(t *testing.T) {
	t.Run("Should create a subscription channel", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		ch, cancel := manager.Subscribe(topic)
		assert.NotNil(t, ch)
		assert.NotNil(t, cancel)
		assert.Equal(t, 1, manager.Subscribers(topic))

		cancel()

		manager.mu.Lock()
		_, exists := manager.subs[topic]
		manager.mu.Unlock()
		assert.False(t, exists, "empty topics should be removed")
	})

	t.Run("Multiple subscriptions to the same topic", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		_, cancel1 := manager.Subscribe(topic)
		_, cancel2 := manager.Subscribe(topic)
		_, cancel3 := manager.Subscribe(topic)
		assert.Equal(t, 3, manager.Subscribers(topic))

		cancel2()
		assert.Equal(t, 2, manager.Subscribers(topic))

		cancel1()
		cancel3()
		assert.Equal(t, 0, manager.Subscribers(topic))
	})

	t.Run("Cancel twice is safe", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		ch, cancel := manager.Subscribe(topic)
		_, other := manager.Subscribe(topic)
		defer other()

		cancel()
		assert.NotPanics(t, cancel)
		assert.Equal(t, 1, manager.Subscribers(topic))

		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("Subscriptions to different topics", func(t *testing.T) {
		manager := newCommentManager()

		_, cancel1 := manager.Subscribe(CommentTopic("post1"))
		_, cancel2 := manager.Subscribe(CommentTopic("post2"))
		_, cancel3 := manager.Subscribe(CommentTopic("post3"))

		manager.mu.Lock()
		assert.Len(t, manager.subs, 3)
		manager.mu.Unlock()

		cancel1()
		cancel2()
		cancel3()

		manager.mu.Lock()
		assert.Empty(t, manager.subs)
		manager.mu.Unlock()
	})
}

func TestSubscriptionManager_Publish(t *testing.T) {
	comment := &model.Comment{
		ID:       "456",
		PostID:   "123",
		Text:     "Test comment",
		AuthorID: "789",
	}

	t.Run("Should send comment to subscribers", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		ch, cancel := manager.Subscribe(topic)
		defer cancel()

		manager.Publish(topic, comment)

		select {
		case received := <-ch:
			assert.Equal(t, comment, received)
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for comment")
		}
	})

	t.Run("Multiple subscribers should all receive the comment", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		ch1, cancel1 := manager.Subscribe(topic)
		ch2, cancel2 := manager.Subscribe(topic)
		ch3, cancel3 := manager.Subscribe(topic)
		defer cancel1()
		defer cancel2()
		defer cancel3()

		manager.Publish(topic, comment)

		for i, ch := range []<-chan *model.Comment{ch1, ch2, ch3} {
			select {
			case received := <-ch:
				assert.Equal(t, comment, received, "Subscriber %d did not receive correct comment", i+1)
			case <-time.After(time.Second):
				t.Fatalf("Subscriber %d timed out waiting for comment", i+1)
			}
		}
	})

	t.Run("Should only send to subscribers of the specific topic", func(t *testing.T) {
		manager := newCommentManager()

		ch1, cancel1 := manager.Subscribe(CommentTopic("post1"))
		ch2, cancel2 := manager.Subscribe(CommentTopic("post2"))
		defer cancel1()
		defer cancel2()

		manager.Publish(CommentTopic("post1"), comment)

		select {
		case received := <-ch1:
			assert.Equal(t, comment, received)
		case <-time.After(time.Second):
			t.Fatal("Subscriber of post1 timed out waiting for comment")
		}

		select {
		case <-ch2:
			t.Fatal("Subscriber of post2 should not receive the comment")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("Late subscribers do not see earlier messages", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		manager.Publish(topic, comment)

		ch, cancel := manager.Subscribe(topic)
		defer cancel()

		select {
		case <-ch:
			t.Fatal("Subscriber should not receive messages published before it subscribed")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("Publishing to a topic with no subscribers should not panic", func(t *testing.T) {
		manager := newCommentManager()

		assert.NotPanics(t, func() {
			manager.Publish(CommentTopic("post1"), comment)
		})
	})

	t.Run("Slow subscriber does not block publishers", func(t *testing.T) {
		manager := NewSubscriptionManager[int](2, nil)

		slow, cancelSlow := manager.Subscribe("numbers")
		defer cancelSlow()

		done := make(chan struct{})
		go func() {
			for i := 0; i < 10; i++ {
				manager.Publish("numbers", i)
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Publish blocked on a full subscriber")
		}

		// the buffer kept the first messages, the rest were dropped
		assert.Equal(t, 0, <-slow)
		assert.Equal(t, 1, <-slow)
		select {
		case v := <-slow:
			t.Fatalf("unexpected message %d", v)
		default:
		}
	})

	t.Run("Messages arrive in publish order", func(t *testing.T) {
		manager := NewSubscriptionManager[int](100, nil)

		ch, cancel := manager.Subscribe("numbers")
		defer cancel()

		for i := 0; i < 50; i++ {
			manager.Publish("numbers", i)
		}
		for i := 0; i < 50; i++ {
			require.Equal(t, i, <-ch)
		}
	})
}

func TestSubscriptionManager_Concurrent(t *testing.T) {
	t.Run("Concurrent subscriptions and publications", func(t *testing.T) {
		manager := newCommentManager()
		postID := "123"
		topic := CommentTopic(postID)

		numSubscribers := 10
		numPublications := 5

		var wg sync.WaitGroup

		cancels := make([]func(), numSubscribers)
		received := make([]int, numSubscribers)
		var mu sync.Mutex
		var readers sync.WaitGroup

		for i := 0; i < numSubscribers; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				ch, cancel := manager.Subscribe(topic)
				cancels[idx] = cancel

				readers.Add(1)
				go func(idx int, ch <-chan *model.Comment) {
					defer readers.Done()
					for comment := range ch {
						assert.Equal(t, postID, comment.PostID)
						mu.Lock()
						received[idx]++
						mu.Unlock()
					}
				}(idx, ch)
			}(i)
		}

		wg.Wait()

		for i := 0; i < numPublications; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				manager.Publish(topic, &model.Comment{
					ID:       strconv.Itoa(1000 + idx),
					PostID:   postID,
					Text:     "Concurrent test comment " + strconv.Itoa(idx),
					AuthorID: "789",
				})
			}(i)
		}

		wg.Wait()

		// cancel closes the channels, so readers drain what was buffered and stop
		for _, cancel := range cancels {
			cancel()
		}
		readers.Wait()

		mu.Lock()
		for i := 0; i < numSubscribers; i++ {
			assert.Equal(t, numPublications, received[i], "Subscriber %d did not receive all publications", i)
		}
		mu.Unlock()
	})

	t.Run("Concurrent subscribes and unsubscribes", func(t *testing.T) {
		manager := newCommentManager()
		topic := CommentTopic("123")

		var wg sync.WaitGroup
		numOperations := 100

		for i := 0; i < numOperations; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				ch, cancel := manager.Subscribe(topic)
				time.Sleep(5 * time.Millisecond)
				cancel()

				_, ok := <-ch
				assert.False(t, ok, "Channel should be closed after cancel")
			}()
		}

		wg.Wait()

		assert.Equal(t, 0, manager.Subscribers(topic))
	})
}
