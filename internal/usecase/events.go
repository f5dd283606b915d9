package usecase

import (
	"context"
	"time"

	"community-board/pkg/logger"
	"community-board/pkg/queue"
)

type ActivityPublisher interface {
	PublishActivity(ctx context.Context, routingKey string, payload interface{}) error
}

type PostLikedEvent struct {
	PostID     uint      `json:"postId"`
	UserID     uint      `json:"userId"`
	LikeCount  int64     `json:"likeCount"`
	OccurredAt time.Time `json:"occurredAt"`
}

type CommentCreatedEvent struct {
	PostID     uint      `json:"postId"`
	CommentID  uint      `json:"commentId"`
	UserID     uint      `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// activityEvents publishes in the background; failures are logged and never reach the caller.
// A nil publisher disables it.
type activityEvents struct {
	publisher ActivityPublisher
	logger    *logger.Logger
	timeout   time.Duration
}

func newActivityEvents(publisher ActivityPublisher, log *logger.Logger) *activityEvents {
	return &activityEvents{publisher: publisher, logger: log, timeout: 5 * time.Second}
}

func (e *activityEvents) postLiked(postID, userID uint, likeCount int64) {
	e.publish(queue.RoutingPostLiked, PostLikedEvent{
		PostID:     postID,
		UserID:     userID,
		LikeCount:  likeCount,
		OccurredAt: time.Now().UTC(),
	})
}

func (e *activityEvents) commentCreated(postID, commentID, userID uint) {
	e.publish(queue.RoutingCommentCreated, CommentCreatedEvent{
		PostID:     postID,
		CommentID:  commentID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
}

func (e *activityEvents) publish(routingKey string, payload interface{}) {
	if e == nil || e.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		if err := e.publisher.PublishActivity(ctx, routingKey, payload); err != nil && e.logger != nil {
			e.logger.Warn("Failed to publish %s event: %v", routingKey, err)
		}
	}()
}
