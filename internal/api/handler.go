package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/metrics"
	"github.com/coparenthq/feishu-moderator/internal/server"
)

// StatsProvider exposes running verdict counts.
type StatsProvider interface {
	Stats() server.Stats
}

// Server provides the ops HTTP API: health, status, metrics, and a dry-run
// classify endpoint that exercises the pipeline without touching the chat.
type Server struct {
	moderationUC *usecase.ModerationUsecase
	stats        StatsProvider
	logger       *logrus.Logger

	server *http.Server
	port   int
}

// NewServer creates a new ops API server
func NewServer(moderationUC *usecase.ModerationUsecase, stats StatsProvider, port int, logger *logrus.Logger) *Server {
	return &Server{
		moderationUC: moderationUC,
		stats:        stats,
		logger:       logger,
		port:         port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/classify", s.handleClassify)
	mux.Handle("/metrics", metrics.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	s.logger.WithField("port", s.port).Info("ops API listening")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("ops API server error")
		}
	}()

	return nil
}

// Stop shuts down the HTTP server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// statusResponse is the /api/status payload
type statusResponse struct {
	Profile    string   `json:"profile"`
	Permissive bool     `json:"permissive"`
	Behaviors  []string `json:"behaviors,omitempty"`
	Allowed    uint64   `json:"allowed"`
	Blocked    uint64   `json:"blocked"`
	Errors     uint64   `json:"errors"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profile := s.moderationUC.ActiveProfile()
	resp := statusResponse{
		Profile:    profile.Name,
		Permissive: profile.Permissive,
		Behaviors:  profile.Behaviors,
	}
	if s.stats != nil {
		stats := s.stats.Stats()
		resp.Allowed = stats.Allowed
		resp.Blocked = stats.Blocked
		resp.Errors = stats.Errors
	}

	writeJSON(w, http.StatusOK, resp)
}

// classifyRequest is the dry-run request body
type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse carries the decision plus the warning that would be sent
type classifyResponse struct {
	Allow    bool   `json:"allow"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
	Warning  string `json:"warning,omitempty"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	decision := s.moderationUC.Classify(r.Context(), req.Text)

	resp := classifyResponse{
		Allow:    decision.Allow,
		Reason:   decision.Reason,
		Category: decision.Category,
	}
	if !decision.Allow {
		resp.Warning = usecase.ComposeWarning(decision)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
