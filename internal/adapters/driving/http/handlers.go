package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/helioscrm/connect-core/internal/core/domain"
	"github.com/helioscrm/connect-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Readiness probe checking backing services
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "Dependency unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// OAuth endpoints

// handleOAuthExchange godoc
// @Summary      Redeem a Google authorization code
// @Description  Verifies the OAuth state, exchanges the code for tokens, and stores the integration
// @Tags         OAuth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.ExchangeRequest  true  "Authorization code and state"
// @Success      200      {object}  driving.ExchangeResponse
// @Failure      400      {object}  ErrorResponse  "Invalid state, code, or provider rejection"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse
// @Router       /oauth/google/exchange [post]
func (s *Server) handleOAuthExchange(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.oauthService.Exchange(r.Context(), authCtx, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Google proxy endpoints

// handleCalendarEvents godoc
// @Summary      Mutate a calendar event
// @Description  Creates, updates, or deletes one event on the connected Google Calendar
// @Tags         Google
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.EventRequest  true  "Operation and event payload"
// @Success      200      {object}  driving.EventResponse
// @Failure      400      {object}  ErrorResponse  "Missing integration or provider rejection"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse
// @Router       /google/calendar/events [post]
func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.calendarService.Mutate(r.Context(), authCtx, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGmailSend godoc
// @Summary      Send an email
// @Description  Sends one email through the connected Gmail account
// @Tags         Google
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.SendMailRequest  true  "Email to send"
// @Success      200      {object}  driving.SendMailResponse
// @Failure      400      {object}  ErrorResponse  "Missing integration or provider rejection"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse
// @Router       /google/gmail/send [post]
func (s *Server) handleGmailSend(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req driving.SendMailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.mailService.Send(r.Context(), authCtx, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Helper functions

// writeServiceError maps service errors to HTTP responses. Provider error
// bodies are logged server-side and never echoed to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) {
		log.Printf("upstream %s failed: status=%d body=%s", uerr.Op, uerr.StatusCode, uerr.Body)
		writeError(w, http.StatusBadRequest, "provider request failed")
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusBadRequest, "invalid or expired state")
	case errors.Is(err, domain.ErrUserMismatch):
		writeError(w, http.StatusBadRequest, "state does not belong to the authenticated user")
	case errors.Is(err, domain.ErrIntegrationNotFound):
		writeError(w, http.StatusBadRequest, "no integration connected")
	case errors.Is(err, domain.ErrRefreshFailed):
		writeError(w, http.StatusBadRequest, "failed to refresh token")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrMissingConfig),
		errors.Is(err, domain.ErrCredentialsNotFound):
		log.Printf("configuration error: %v", err)
		writeError(w, http.StatusInternalServerError, "server configuration error")
	default:
		log.Printf("unhandled service error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
