package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"signalist/internal/domain/entity"
	"signalist/internal/handler/http/respond"
)

// welcomeDispatchTimeout bounds the background welcome email flow, which
// includes one AI call and one SMTP delivery.
const welcomeDispatchTimeout = 90 * time.Second

// SignupService is the port to the welcome email use case.
type SignupService interface {
	SendSignUpEmail(ctx context.Context, user *entity.User) error
}

// userCreatedEvent is the JSON payload of POST /api/events/user-created.
// Field names match the frontend event producer.
type userCreatedEvent struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country"`
	InvestmentGoals   string `json:"investmentGoals"`
	RiskTolerance     string `json:"riskTolerance"`
	PreferredIndustry string `json:"preferredIndustry"`
}

// EventsHandler serves POST /api/events/user-created. The welcome email
// runs in the background and the endpoint responds 202 immediately; the
// caller is a signup flow that must not block on AI or SMTP latency.
type EventsHandler struct {
	Signup SignupService
	Logger *slog.Logger

	// dispatch allows tests to replace the background goroutine with a
	// synchronous call.
	dispatch func(user *entity.User)
}

// NewEventsHandler creates the user-created event handler.
func NewEventsHandler(signup SignupService, logger *slog.Logger) *EventsHandler {
	h := &EventsHandler{Signup: signup, Logger: logger}
	h.dispatch = h.dispatchAsync
	return h
}

// ServeHTTP validates the event payload and schedules the welcome email.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var event userCreatedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid event payload"))
		return
	}

	event.Email = strings.TrimSpace(event.Email)
	if err := entity.ValidateEmail(event.Email); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	user := &entity.User{
		Email:             event.Email,
		Name:              strings.TrimSpace(event.Name),
		Country:           strings.TrimSpace(event.Country),
		InvestmentGoals:   strings.TrimSpace(event.InvestmentGoals),
		RiskTolerance:     strings.TrimSpace(event.RiskTolerance),
		PreferredIndustry: strings.TrimSpace(event.PreferredIndustry),
	}

	h.dispatch(user)

	respond.JSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// dispatchAsync runs the welcome email flow detached from the request
// context so the response can return immediately.
func (h *EventsHandler) dispatchAsync(user *entity.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeDispatchTimeout)
		defer cancel()

		if err := h.Signup.SendSignUpEmail(ctx, user); err != nil {
			h.Logger.Error("welcome email dispatch failed",
				slog.String("email", user.Email),
				slog.String("error", respond.SanitizeError(err)))
		}
	}()
}
