package postapp

import (
	"context"
	"time"

	postEntity "postapi/internal/core/post"
	postPort "postapi/internal/ports/post"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type PostService struct {
	PostRepository postPort.PostRepository
	Publisher      postPort.EventPublisher
	Logger         *zap.Logger

	now func() time.Time
}

type Option func(*PostService)

// WithClock replaces the time source used for post dates.
func WithClock(now func() time.Time) Option {
	return func(s *PostService) {
		s.now = now
	}
}

func NewPostService(
	postRepo postPort.PostRepository,
	publisher postPort.EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *PostService {
	if publisher == nil {
		publisher = postPort.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PostService{
		PostRepository: postRepo,
		Publisher:      publisher,
		Logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	posts, err := s.PostRepository.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}
	return dtos, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return postPort.ToDTO(p), nil
}

// CreatePost assigns a fresh id and date, then persists the post.
func (s *PostService) CreatePost(ctx context.Context, title, content string) (*postPort.PostDTO, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate post id")
	}

	p := &postEntity.Post{
		ID:      id.String(),
		Title:   title,
		Content: content,
	}
	p.Touch(s.now())

	if err := s.PostRepository.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.Info("post created", zap.String("id", p.ID))

	s.publish(ctx, postPort.EventCreated, p.ID)
	return postPort.ToDTO(p), nil
}

// UpdatePost applies the supplied fields and always refreshes the date.
func (s *PostService) UpdatePost(ctx context.Context, id string, changes postPort.PostChanges) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Title != nil {
		p.Title = *changes.Title
	}
	if changes.Content != nil {
		p.Content = *changes.Content
	}
	p.Touch(s.now())

	if err := s.PostRepository.Update(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.Info("post updated", zap.String("id", p.ID))

	s.publish(ctx, postPort.EventUpdated, p.ID)
	return postPort.ToDTO(p), nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.PostRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("post deleted", zap.String("id", id))

	s.publish(ctx, postPort.EventDeleted, id)
	return nil
}

// Ping reports whether the store is reachable.
func (s *PostService) Ping(ctx context.Context) error {
	return s.PostRepository.Ping(ctx)
}

// publish is best effort: a failed notification never fails the write.
func (s *PostService) publish(ctx context.Context, eventType postPort.EventType, postID string) {
	event := postPort.Event{
		Type:       eventType,
		PostID:     postID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Warn("could not publish post event",
			zap.String("type", string(eventType)),
			zap.String("postID", postID),
			zap.Error(err),
		)
	}
}
