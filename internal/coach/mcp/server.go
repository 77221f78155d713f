package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewServer builds an MCP server with the coach tools: context snapshot,
// generic action dispatch, progression advice, weekly volume and meal macros.
// Used by cmd/coach_mcp over stdio and mounted by the main service at /mcp.
func NewServer(service coachService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitcoach",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_coach_context",
		Description: "Returns the consolidated training and nutrition snapshot for a user: recent workouts, per-exercise progress, top lifts by volume, today's nutrition and goals. Use it to answer open questions about the user's training.",
	}, h.GetCoachContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "dispatch_coach_action",
		Description: "Runs one coach intent and returns the response envelope {success, action, data, message, error}. Intents: GET_PROGRESSION_ADVICE, FIND_READY_TO_PROGRESS, GET_EXERCISE_PR, GET_EXERCISE_HISTORY, GET_EXERCISE_PROGRESSION, CHECK_VOLUME_BALANCE, GET_WEEKLY_VOLUME, RECOMMEND_MEAL_MACROS, GET_NUTRITION_STATUS, GET_WORKOUT_HISTORY, GET_TOP_PRS, ANSWER_QUESTION.",
	}, h.DispatchCoachActionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_advice",
		Description: "Returns whether to add weight, add volume or deload for an exercise, based on its latest sessions. Without exercise_name, lists every exercise that is ready for more weight.",
	}, h.GetProgressionAdviceTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_volume",
		Description: "Returns working sets per muscle group (chest, back, legs, shoulders, arms, core) over the last 7 days, with LOW/OPTIMAL/HIGH status per group.",
	}, h.GetWeeklyVolumeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "recommend_meal_macros",
		Description: "Returns calories and macros for one meal, split from what is left of today's targets over the meals still to come.",
	}, h.RecommendMealMacrosTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return otelhttp.NewHandler(handler, "mcp")
}
