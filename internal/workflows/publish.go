package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the queue the publish worker listens on.
const TaskQueue = "chasse-publish"

// PublishInput is the input for the trail publish workflow.
type PublishInput struct {
	TrailID string
}

// PublishTrailWorkflow orchestrates taking a trail live: validate its
// geometry, snapshot the computed distance, flip the published flag, and
// broadcast the change. If the broadcast fails, the trail is taken
// offline again (saga compensation).
func PublishTrailWorkflow(ctx workflow.Context, input PublishInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting trail publish workflow", "trailID", input.TrailID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Validate geometry and recompute the stored distance
	var distanceKm float64
	err := workflow.ExecuteActivity(ctx, "ValidateTrailGeometry", input.TrailID).Get(ctx, &distanceKm)
	if err != nil {
		return err
	}

	// Step 2: Flip the published flag
	err = workflow.ExecuteActivity(ctx, "MarkTrailPublished", input.TrailID).Get(ctx, nil)
	if err != nil {
		return err
	}

	// Step 3: Broadcast to the mobile apps
	err = workflow.ExecuteActivity(ctx, "BroadcastTrailPublished", input.TrailID).Get(ctx, nil)
	if err != nil {
		logger.Warn("broadcast failed, rolling back publish", "error", err)
		// Compensate: take the trail offline again
		_ = workflow.ExecuteActivity(ctx, "UnpublishTrail", input.TrailID).Get(ctx, nil)
		return err
	}

	logger.Info("Trail published", "trailID", input.TrailID, "distanceKm", distanceKm)
	return nil
}
