package mcp

import (
	"context"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type snapshotSource interface {
	Snapshot(ctx context.Context, userID string) *aggregator.Snapshot
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, req dispatch.Request) dispatch.Envelope
}

// coachService provides the coach context and actions to the tool handlers.
type coachService interface {
	snapshotSource
	dispatcher
}

// CoachService exposes the engine to MCP clients. Every action goes through
// the dispatcher, so tools answer with the same envelope as the chat UI.
type CoachService struct {
	snapshots  snapshotSource
	dispatcher dispatcher
}

func NewCoachService(snapshots snapshotSource, d dispatcher) *CoachService {
	return &CoachService{
		snapshots:  snapshots,
		dispatcher: d,
	}
}

func (s *CoachService) Snapshot(ctx context.Context, userID string) *aggregator.Snapshot {
	return s.snapshots.Snapshot(ctx, userID)
}

func (s *CoachService) Dispatch(ctx context.Context, userID string, req dispatch.Request) dispatch.Envelope {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mcp.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("intent", req.Intent))

	if req.Context.Screen == "" {
		req.Context.Screen = intent.ScreenDashboard
	}
	return s.dispatcher.Dispatch(ctx, userID, req)
}
