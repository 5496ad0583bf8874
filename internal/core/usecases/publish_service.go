package usecases

import (
	"context"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
)

// PublishService takes trails live. With a workflow engine configured the
// publication runs as a durable saga on the worker; without one the same
// steps run inline in the request.
type PublishService struct {
	trails *TrailService
	engine ports.WorkflowEngine
}

// NewPublishService creates a PublishService. engine may be nil, in which
// case publication always runs inline.
func NewPublishService(trails *TrailService, engine ports.WorkflowEngine) *PublishService {
	return &PublishService{trails: trails, engine: engine}
}

// Publish takes the trail live. The second return value reports whether
// the publication was handed to the workflow engine (async) rather than
// completed inline; the trail is only returned on the inline path.
func (s *PublishService) Publish(ctx context.Context, id string) (*domain.Trail, bool, error) {
	if s.engine != nil {
		if err := s.engine.StartTrailPublish(ctx, id); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}
	trail, err := s.trails.Publish(ctx, id)
	return trail, false, err
}
