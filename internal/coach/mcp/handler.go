package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/intent"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests: validates input, calls the service and
// formats the result as JSON text content.
type Handler struct {
	service coachService
}

func NewHandler(service coachService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// envelopeResult flags failed envelopes as tool errors but keeps the whole
// envelope as content, so the client still sees the message.
func envelopeResult(env dispatch.Envelope) *mcp.CallToolResult {
	res := jsonResult(env)
	if !env.Success {
		res.IsError = true
	}
	return res
}

type UserInput struct {
	UserID string `json:"user_id" jsonschema:"Id of the user whose data to analyze"`
}

// GetCoachContextTool returns the MCP tool handler for get_coach_context.
func (h *Handler) GetCoachContextTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		return jsonResult(h.service.Snapshot(ctx, userID)), nil, nil
	}
}

type DispatchInput struct {
	UserID     string         `json:"user_id" jsonschema:"Id of the user whose data to analyze"`
	Intent     string         `json:"intent" jsonschema:"Intent name, e.g. GET_PROGRESSION_ADVICE, GET_EXERCISE_PR, CHECK_VOLUME_BALANCE, RECOMMEND_MEAL_MACROS"`
	Parameters map[string]any `json:"parameters,omitempty" jsonschema:"Intent parameters, e.g. exerciseName, metric, mealType, limit, windowDays"`
	Screen     string         `json:"screen,omitempty" jsonschema:"Screen the request comes from: workout, nutrition or dashboard"`
	Exercise   string         `json:"exercise,omitempty" jsonschema:"Exercise currently shown on screen, used when parameters have none"`
}

// DispatchCoachActionTool returns the MCP tool handler for dispatch_coach_action.
func (h *Handler) DispatchCoachActionTool() func(context.Context, *mcp.CallToolRequest, DispatchInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DispatchInput) (*mcp.CallToolResult, any, error) {
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		if strings.TrimSpace(in.Intent) == "" {
			return errorResult("intent is required"), nil, nil
		}
		env := h.service.Dispatch(ctx, userID, dispatch.Request{
			Intent:     in.Intent,
			Parameters: in.Parameters,
			Context: dispatch.Context{
				Screen:           in.Screen,
				ExerciseSpecific: in.Exercise,
			},
		})
		return envelopeResult(env), nil, nil
	}
}

type ProgressionInput struct {
	UserID       string `json:"user_id" jsonschema:"Id of the user whose data to analyze"`
	ExerciseName string `json:"exercise_name,omitempty" jsonschema:"Exercise to advise on; leave empty to list every exercise ready for more weight"`
}

// GetProgressionAdviceTool returns the MCP tool handler for get_progression_advice.
func (h *Handler) GetProgressionAdviceTool() func(context.Context, *mcp.CallToolRequest, ProgressionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ProgressionInput) (*mcp.CallToolResult, any, error) {
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return errorResult("user_id is required"), nil, nil
		}

		req := dispatch.Request{Intent: string(intent.FindReadyToProgress)}
		if name := strings.TrimSpace(in.ExerciseName); name != "" {
			req = dispatch.Request{
				Intent:     string(intent.GetProgressionAdvice),
				Parameters: map[string]any{intent.ParamExerciseName: name},
			}
		}
		return envelopeResult(h.service.Dispatch(ctx, userID, req)), nil, nil
	}
}

// GetWeeklyVolumeTool returns the MCP tool handler for get_weekly_volume.
func (h *Handler) GetWeeklyVolumeTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		env := h.service.Dispatch(ctx, userID, dispatch.Request{Intent: string(intent.GetWeeklyVolume)})
		return envelopeResult(env), nil, nil
	}
}

type MealInput struct {
	UserID   string `json:"user_id" jsonschema:"Id of the user whose data to analyze"`
	MealType string `json:"meal_type,omitempty" jsonschema:"Meal to plan, e.g. breakfast, lunch, dinner, snack; leave empty for the next upcoming meal"`
}

// RecommendMealMacrosTool returns the MCP tool handler for recommend_meal_macros.
func (h *Handler) RecommendMealMacrosTool() func(context.Context, *mcp.CallToolRequest, MealInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MealInput) (*mcp.CallToolResult, any, error) {
		userID := strings.TrimSpace(in.UserID)
		if userID == "" {
			return errorResult("user_id is required"), nil, nil
		}
		req := dispatch.Request{
			Intent:  string(intent.RecommendMealMacros),
			Context: dispatch.Context{Screen: intent.ScreenNutrition},
		}
		if mealType := strings.TrimSpace(in.MealType); mealType != "" {
			req.Parameters = map[string]any{intent.ParamMealType: mealType}
		}
		return envelopeResult(h.service.Dispatch(ctx, userID, req)), nil, nil
	}
}
