// Package coach serves the analytics engine over HTTP for the chat UI, the
// suggestion poller and the dashboard.
package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/fitcoach/internal/coach/aggregator"
	"github.com/2beens/fitcoach/internal/coach/dispatch"
	"github.com/2beens/fitcoach/internal/coach/intent"
	"github.com/2beens/fitcoach/internal/coach/suggestions"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// maxBodyBytes caps request bodies; chat messages and action requests are small.
const maxBodyBytes = 64 * 1024

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=coach_test

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, req dispatch.Request) dispatch.Envelope
}

type messageClassifier interface {
	Classify(message, screen string) intent.Classification
}

type snapshotSource interface {
	Snapshot(ctx context.Context, userID string) *aggregator.Snapshot
}

type suggestionPoller interface {
	Poll(ctx context.Context, userID string) []suggestions.Suggestion
	Dismiss(userID, suggestionID string)
}

type MessageRequest struct {
	Message string           `json:"message"`
	Context dispatch.Context `json:"context"`
}

// MessageResponse is the dispatch envelope plus how the message was read.
type MessageResponse struct {
	dispatch.Envelope
	Classification intent.Classification `json:"classification"`
}

type SuggestionsResponse struct {
	Suggestions []suggestions.Suggestion `json:"suggestions"`
}

type DismissResponse struct {
	DismissedID string `json:"dismissedId"`
}

type Handler struct {
	dispatcher  dispatcher
	classifier  messageClassifier
	snapshots   snapshotSource
	suggestions suggestionPoller
}

func NewHandler(
	d dispatcher,
	classifier messageClassifier,
	snapshots snapshotSource,
	poller suggestionPoller,
) *Handler {
	return &Handler{
		dispatcher:  d,
		classifier:  classifier,
		snapshots:   snapshots,
		suggestions: poller,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router, mw ...mux.MiddlewareFunc) {
	coachRouter := r.PathPrefix("/coach/{userId}").Subrouter()
	coachRouter.HandleFunc("/action", handler.HandleAction).Methods("POST", "OPTIONS").Name("coach-action")
	coachRouter.HandleFunc("/message", handler.HandleMessage).Methods("POST", "OPTIONS").Name("coach-message")
	coachRouter.HandleFunc("/context", handler.HandleContext).Methods("GET", "OPTIONS").Name("coach-context")
	coachRouter.HandleFunc("/suggestions", handler.HandleSuggestions).Methods("GET", "OPTIONS").Name("coach-suggestions")
	coachRouter.HandleFunc("/suggestions/{id}/dismiss", handler.HandleDismiss).Methods("POST", "OPTIONS").Name("coach-dismiss")
	coachRouter.Use(mw...)
}

func userIDFrom(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["userId"])
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON)
}

func (handler *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.action")
	defer span.End()

	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	if !isJSON(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req dispatch.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Errorf("coach action, unmarshal request: %s", err)
		http.Error(w, "error, invalid action request", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("intent", req.Intent))

	env := handler.dispatcher.Dispatch(ctx, userID, req)
	pkg.WriteJSON(w, env, http.StatusOK)
}

func (handler *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.message")
	defer span.End()

	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}
	if !isJSON(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var msg MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		log.Errorf("coach message, unmarshal request: %s", err)
		http.Error(w, "error, invalid message request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(msg.Message) == "" {
		http.Error(w, "error, message empty", http.StatusBadRequest)
		return
	}

	cl := handler.classifier.Classify(msg.Message, msg.Context.Screen)
	span.SetAttributes(
		attribute.String("intent", string(cl.Intent)),
		attribute.Float64("confidence", cl.Confidence),
	)
	log.Tracef("coach message classified as %s (%.1f)", cl.Intent, cl.Confidence)

	env := handler.dispatcher.Dispatch(ctx, userID, dispatch.Request{
		Intent:     string(cl.Intent),
		Parameters: cl.Parameters,
		Context:    msg.Context,
	})
	pkg.WriteJSON(w, MessageResponse{
		Envelope:       env,
		Classification: cl,
	}, http.StatusOK)
}

func (handler *Handler) HandleContext(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.context")
	defer span.End()

	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, handler.snapshots.Snapshot(ctx, userID), http.StatusOK)
}

func (handler *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.suggestions")
	defer span.End()

	userID := userIDFrom(r)
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	list := handler.suggestions.Poll(ctx, userID)
	if list == nil {
		list = []suggestions.Suggestion{}
	}
	pkg.WriteJSON(w, SuggestionsResponse{Suggestions: list}, http.StatusOK)
}

func (handler *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.dismiss")
	defer span.End()

	userID := userIDFrom(r)
	suggestionID := strings.TrimSpace(mux.Vars(r)["id"])
	if userID == "" || suggestionID == "" {
		http.Error(w, "error, user id or suggestion id empty", http.StatusBadRequest)
		return
	}

	handler.suggestions.Dismiss(userID, suggestionID)
	log.Debugf("suggestion [%s] dismissed for user [%s]", suggestionID, userID)
	pkg.WriteJSON(w, DismissResponse{DismissedID: suggestionID}, http.StatusOK)
}
