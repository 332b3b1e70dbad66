package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neuronaut/clarity/pkg/engine"
	"github.com/neuronaut/clarity/pkg/errorsx"
	"github.com/neuronaut/clarity/pkg/memory"
	"github.com/neuronaut/clarity/pkg/voice"
)

// identityHeader is set by the auth collaborator in front of this service.
const identityHeader = "X-User-Id"

type turnRequest struct {
	Messages json.RawMessage    `json:"messages"`
	Context  engine.TurnContext `json:"context"`
}

type turnResponse struct {
	Reply string  `json:"reply"`
	Note  *string `json:"note"`
}

// handleAgent runs one conversational turn. The boundary never returns an
// error status: malformed bodies get the clarifying prompt, internal
// failures get the engine's calm fallback, always with 200.
func (s *Server) handleAgent(c echo.Context) error {
	body, ok := s.readTurnBody(c)
	if !ok {
		return c.JSON(http.StatusOK, turnResponse{Reply: s.engine.Policy().ClarifyReply})
	}

	var req turnRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusOK, turnResponse{Reply: s.engine.Policy().ClarifyReply})
	}
	// A literal null unmarshals into a nil slice without error; it is not
	// an array and gets the same treatment as any other malformed shape.
	var history []engine.Message
	if len(req.Messages) == 0 || string(req.Messages) == "null" ||
		json.Unmarshal(req.Messages, &history) != nil {
		return c.JSON(http.StatusOK, turnResponse{Reply: s.engine.Policy().ClarifyReply})
	}
	if req.Context.UserIdentity == "" {
		req.Context.UserIdentity = strings.TrimSpace(c.Request().Header.Get(identityHeader))
	}

	result := s.engine.HandleTurn(c.Request().Context(), history, req.Context)
	resp := turnResponse{Reply: result.Reply}
	if result.Note != "" {
		note := result.Note
		resp.Note = &note
	}
	return c.JSON(http.StatusOK, resp)
}

// readTurnBody reads the JSON payload, also accepting a multipart form
// whose payload field carries the JSON (image attachments are ignored).
func (s *Server) readTurnBody(c echo.Context) ([]byte, bool) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		payload := c.FormValue("payload")
		if strings.TrimSpace(payload) == "" {
			return nil, false
		}
		return []byte(payload), true
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return nil, false
	}
	return body, true
}

type notesResponse struct {
	Notes []memory.WorkingNote `json:"notes"`
}

func (s *Server) handleListNotes(c echo.Context) error {
	return c.JSON(http.StatusOK, notesResponse{Notes: s.local.List()})
}

// handleAddNote is the anonymous fallback path: it answers the current
// capped list even when the input is unusable.
func (s *Server) handleAddNote(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, notesResponse{Notes: s.local.List()})
	}
	return c.JSON(http.StatusOK, notesResponse{Notes: s.local.Add(req.Text)})
}

// Limit rejection bodies are machine-readable so the UI can swap to a calm,
// non-technical message. End users never see words like quota or token.
const (
	bodySignedLimit = "SIGNED_LIMIT_REACHED"
	bodyGuestLimit  = "GUEST_LIMIT_REACHED"
)

func (s *Server) handleVoice(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Voice error")
	}
	subject := voice.Subject{
		Identity: strings.TrimSpace(c.Request().Header.Get(identityHeader)),
		IP:       c.RealIP(),
	}

	audio, err := s.voice.Synthesize(c.Request().Context(), req.Text, subject)
	if err != nil {
		switch errorsx.Reason(err) {
		case errorsx.ReasonSignedLimitReached:
			return c.String(http.StatusForbidden, bodySignedLimit)
		case errorsx.ReasonGuestLimitReached:
			return c.String(http.StatusForbidden, bodyGuestLimit)
		}
		s.log.Error("voice synthesis failed",
			slog.String("reason", string(errorsx.Reason(err))),
			slog.String("error", err.Error()))
		return c.String(http.StatusInternalServerError, "Voice error")
	}
	return c.Blob(http.StatusOK, s.voice.ContentType(), audio)
}

// handleErase removes every working note and voice-usage row for the
// calling identity. Idempotent; called by the account-deletion flow.
func (s *Server) handleErase(c echo.Context) error {
	identity := strings.TrimSpace(c.Request().Header.Get(identityHeader))
	if identity == "" {
		return c.JSON(http.StatusUnauthorized, map[string]any{"ok": false, "reason": "no-session"})
	}
	if err := s.store.EraseOwner(c.Request().Context(), identity); err != nil {
		s.log.Error("erase failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
