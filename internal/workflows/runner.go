package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
)

const tripPlanTimeout = 5 * time.Minute

// Runner starts trip plan workflows and collects their results.
type Runner struct {
	client    client.Client
	taskQueue string
}

// NewRunner creates a Runner submitting to taskQueue.
func NewRunner(c client.Client, taskQueue string) *Runner {
	return &Runner{client: c, taskQueue: taskQueue}
}

// StartTripPlan starts a workflow and returns its ID.
func (r *Runner) StartTripPlan(ctx context.Context, req usecases.TripRequest) (string, error) {
	id := "trip-plan-" + uuid.NewString()
	_, err := r.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       id,
		TaskQueue:                r.taskQueue,
		WorkflowExecutionTimeout: tripPlanTimeout,
	}, TripPlanWorkflow, TripPlanInput{Request: req})
	if err != nil {
		return "", fmt.Errorf("start trip plan: %w", err)
	}
	return id, nil
}

// TripPlanResult returns the plan of a finished workflow. A running one
// reports domain.ErrPending.
func (r *Runner) TripPlanResult(ctx context.Context, id string) (*domain.TripPlan, error) {
	desc, err := r.client.DescribeWorkflowExecution(ctx, id, "")
	if err != nil {
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("trip plan %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("describe trip plan: %w", err)
	}
	if desc.GetWorkflowExecutionInfo().GetStatus() == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		return nil, domain.ErrPending
	}

	var plan domain.TripPlan
	if err := r.client.GetWorkflow(ctx, id, "").Get(ctx, &plan); err != nil {
		return nil, workflowError(err)
	}
	return &plan, nil
}

// workflowError maps a failed run back to the domain error it started as.
func workflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case errTypeInvalidInput:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, appErr.Message())
		case errTypeNotFound:
			return fmt.Errorf("%s: %w", appErr.Message(), domain.ErrNotFound)
		}
	}
	return fmt.Errorf("trip plan failed: %w", err)
}
