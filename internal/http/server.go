package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hperssn/focusnest/internal/chat"
	"github.com/hperssn/focusnest/internal/domain"
	"github.com/hperssn/focusnest/internal/runner"
	"github.com/hperssn/focusnest/internal/storage"
)

// Timer is the command surface of the interval timer.
type Timer interface {
	Snapshot() domain.Snapshot
	Start() domain.Snapshot
	Pause() domain.Snapshot
	Reset() domain.Snapshot
	Configure(focusMinutes int) domain.Snapshot
	Subscribe(buffer int) (uuid.UUID, <-chan runner.Event)
	Unsubscribe(id uuid.UUID)
}

type Server struct {
	repo      storage.Repository
	timer     Timer
	chat      *chat.Service
	logger    *log.Logger
	staticDir string
}

func NewServer(repo storage.Repository, timer Timer, chatService *chat.Service, logger *log.Logger) *Server {
	return &Server{
		repo:   repo,
		timer:  timer,
		chat:   chatService,
		logger: logger,
	}
}

// ServeStatic mounts the browser client in dir: index.html at / and the
// rest under /static/.
func (s *Server) ServeStatic(dir string) {
	s.staticDir = dir
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if s.staticDir != "" {
		r.Get("/", s.serveIndex)
		fs := http.FileServer(http.Dir(s.staticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Patch("/tasks/{id}", s.updateTask)
		r.Delete("/tasks/{id}", s.deleteTask)

		r.Get("/pomodoro/settings", s.getSettings)
		r.Put("/pomodoro/settings", s.updateSettings)

		r.Get("/moods", s.listMoods)
		r.Post("/moods", s.createMood)

		r.Get("/messages", s.listMessages)
		r.Post("/messages", s.sendMessage)
		r.Get("/chat/tip", s.chatTip)

		r.Get("/timer", s.getTimer)
		r.Post("/timer/start", s.startTimer)
		r.Post("/timer/pause", s.pauseTimer)
		r.Post("/timer/reset", s.resetTimer)
		r.Put("/timer/focus", s.configureTimer)
		r.Get("/timer/events", s.streamTimerEvents)
	})

	return r
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func (s *Server) respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, message string, status int) {
	s.respondJSON(w, map[string]string{"error": message}, status)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()), "err", err)
	s.respondError(w, "Internal server error", http.StatusInternalServerError)
}
