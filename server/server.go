// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/attache-labs/attache/agent/contract"
	statex "github.com/attache-labs/attache/agent/state"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr            string        `split_words:"true" default:":8080"`
	Mode            string        `split_words:"true" default:"release"`
	ReadTimeout     time.Duration `split_words:"true" default:"30s"`
	WriteTimeout    time.Duration `split_words:"true" default:"120s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// TurnHandler is the conversational backend the server fronts.
type TurnHandler interface {
	HandleTurn(ctx context.Context, sessionID string, text string) (contractx.ActionPayload, error)
	History(ctx context.Context, sessionID string) ([]statex.Turn, error)
	Documents(ctx context.Context, sessionID string) ([]string, error)
	AttachDocuments(ctx context.Context, sessionID string, text string) error
}

// DocAnswerer answers questions against uploaded document text.
type DocAnswerer interface {
	Answer(ctx context.Context, question string, docs []string) (string, error)
}

type Server struct {
	engine *gin.Engine
	cfg    Config

	turns     TurnHandler
	qa        DocAnswerer
	directory contractx.Directory
	mailer    contractx.EmailTransport
	calendar  contractx.Calendar
}

// New builds the router. mailer and calendar may be nil when outbound
// delivery is not configured; their routes then report the missing setup.
func New(
	cfg Config,
	turns TurnHandler,
	qa DocAnswerer,
	directory contractx.Directory,
	mailer contractx.EmailTransport,
	calendar contractx.Calendar,
) (*Server, error) {
	if turns == nil {
		return nil, errors.New("turn handler is required")
	}
	if qa == nil {
		return nil, errors.New("document answerer is required")
	}
	if directory == nil {
		return nil, errors.New("contact directory is required")
	}

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine:    engine,
		cfg:       cfg,
		turns:     turns,
		qa:        qa,
		directory: directory,
		mailer:    mailer,
		calendar:  calendar,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)

	s.engine.POST("/process_input", s.processInput)
	s.engine.GET("/get_history", s.getHistory)

	s.engine.POST("/upload_documents", s.uploadDocuments)
	s.engine.POST("/ask_question", s.askQuestion)

	s.engine.POST("/contacts", s.upsertContact)

	s.engine.POST("/send_email", s.sendEmail)
	s.engine.POST("/create_meeting", s.createMeeting)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}
