package redis

import (
	"context"
	"encoding/json"

	postPort "postapi/internal/ports/post"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostEventPublisherRedis publishes post change events on a pub/sub channel.
type PostEventPublisherRedis struct {
	Client  *redis.Client
	Channel string
	Logger  *zap.Logger
}

func NewPostEventPublisherRedis(client *redis.Client, channel string, logger *zap.Logger) *PostEventPublisherRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostEventPublisherRedis{
		Client:  client,
		Channel: channel,
		Logger:  logger,
	}
}

func (r *PostEventPublisherRedis) Publish(ctx context.Context, event postPort.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	receivers, err := r.Client.Publish(ctx, r.Channel, payload).Result()
	if err != nil {
		return errors.Wrapf(err, "could not publish to channel %q", r.Channel)
	}

	r.Logger.Debug("published post event",
		zap.String("channel", r.Channel),
		zap.String("type", string(event.Type)),
		zap.String("postID", event.PostID),
		zap.Int64("receivers", receivers),
	)
	return nil
}
