package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
)

// Starter hands trail publications off to Temporal.
type Starter struct {
	c client.Client
}

// NewStarter wraps a Temporal client.
func NewStarter(c client.Client) *Starter {
	return &Starter{c: c}
}

// StartTrailPublish launches the publish saga for a trail. The workflow
// ID is derived from the trail so a double-clicked publish button joins
// the already-running workflow instead of racing it.
func (s *Starter) StartTrailPublish(ctx context.Context, trailID string) error {
	opts := client.StartWorkflowOptions{
		ID:        "trail-publish-" + trailID,
		TaskQueue: TaskQueue,
	}
	if _, err := s.c.ExecuteWorkflow(ctx, opts, PublishTrailWorkflow, PublishInput{TrailID: trailID}); err != nil {
		return fmt.Errorf("start publish workflow: %w", err)
	}
	return nil
}
