package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/attache-labs/attache/agent/contract"
	qax "github.com/attache-labs/attache/agent/qa"
	statex "github.com/attache-labs/attache/agent/state"
)

type processInputRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text" binding:"required"`
}

type processInputResponse struct {
	SessionID string                  `json:"session_id"`
	Payload   contractx.ActionPayload `json:"payload"`
}

func (s *Server) processInput(c *gin.Context) {
	var req processInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	payload, err := s.turns.HandleTurn(c.Request.Context(), sessionID, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, processInputResponse{SessionID: sessionID, Payload: payload})
}

type historyTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (s *Server) getHistory(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	turns, err := s.turns.History(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, statex.ErrStateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		s.fail(c, err)
		return
	}

	out := make([]historyTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, historyTurn{Sender: string(t.Sender), Text: t.Text})
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "history": out})
}

type uploadDocumentsRequest struct {
	SessionID string   `json:"session_id"`
	Documents []string `json:"documents" binding:"required,min=1"`
}

func (s *Server) uploadDocuments(c *gin.Context) {
	var req uploadDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := s.turns.AttachDocuments(c.Request.Context(), sessionID, qax.Label(req.Documents)); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "documents": len(req.Documents)})
}

type askQuestionRequest struct {
	SessionID string   `json:"session_id"`
	Question  string   `json:"question" binding:"required"`
	Documents []string `json:"documents"`
}

func (s *Server) askQuestion(c *gin.Context) {
	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docs := req.Documents
	if len(docs) == 0 && strings.TrimSpace(req.SessionID) != "" {
		stored, err := s.turns.Documents(c.Request.Context(), req.SessionID)
		if err != nil {
			s.fail(c, err)
			return
		}
		docs = stored
	}
	if len(docs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no documents uploaded for this session"})
		return
	}

	answer, err := s.qa.Answer(c.Request.Context(), req.Question, docs)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

type upsertContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) upsertContact(c *gin.Context) {
	var req upsertContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.directory.Upsert(c.Request.Context(), req.Name, req.Email); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name, "email": req.Email})
}

type sendEmailRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

func (s *Server) sendEmail(c *gin.Context) {
	if s.mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery is not configured"})
		return
	}

	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.mailer.Send(c.Request.Context(), contractx.EmailRequest{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Content:   req.Content,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createMeetingRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	StartTime       string   `json:"start_time" binding:"required"`
	DurationMinutes int      `json:"duration_minutes"`
	Attendees       []string `json:"attendees"`
	SendInvites     bool     `json:"send_invites"`
}

type inviteStatus struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
}

type createMeetingResponse struct {
	Success     bool           `json:"success"`
	MeetingLink string         `json:"meeting_link,omitempty"`
	EventID     string         `json:"event_id,omitempty"`
	Invites     []inviteStatus `json:"invites,omitempty"`
}

func (s *Server) createMeeting(c *gin.Context) {
	if s.calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar is not configured"})
		return
	}

	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("start_time must be RFC 3339: %v", err)})
		return
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 45
	}

	result, err := s.calendar.CreateEvent(c.Request.Context(), contractx.MeetingRequest{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(duration) * time.Minute),
		Attendees:   req.Attendees,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := createMeetingResponse{
		Success:     result.Success,
		MeetingLink: result.MeetingLink,
		EventID:     result.EventID,
	}

	// Invite emails are best effort: a failed send is reported per recipient
	// without undoing the event.
	if req.SendInvites && s.mailer != nil {
		for _, recipient := range req.Attendees {
			status := inviteStatus{Recipient: recipient, Success: true}
			if _, err := s.mailer.Send(c.Request.Context(), contractx.EmailRequest{
				Recipient: recipient,
				Subject:   fmt.Sprintf("Invitation: %s", req.Title),
				Content:   inviteBody(req.Title, req.Description, start, duration, result.MeetingLink),
			}); err != nil {
				status.Success = false
				status.Message = err.Error()
				log.Warn().Err(err).Str("recipient", recipient).Msg("invite email failed")
			}
			resp.Invites = append(resp.Invites, status)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func inviteBody(title, description string, start time.Time, duration int, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are invited to: %s\n", title)
	fmt.Fprintf(&b, "When: %s (%d minutes)\n", start.Format("Mon, 02 Jan 2006 15:04 MST"), duration)
	if description != "" {
		fmt.Fprintf(&b, "Details: %s\n", description)
	}
	if link != "" {
		fmt.Fprintf(&b, "Join: %s\n", link)
	}
	return b.String()
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, contractx.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
