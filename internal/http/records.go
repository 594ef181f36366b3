package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/focusnest/internal/chat"
	"github.com/hperssn/focusnest/internal/domain"
	"github.com/hperssn/focusnest/internal/storage"
)

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeValid decodes the request body into v and checks its tags.
func decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return domain.Validate(v)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.ListTasks(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, tasks, http.StatusOK)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req domain.NewTask
	if err := decodeValid(r, &req); err != nil {
		s.respondError(w, "Invalid task data", http.StatusBadRequest)
		return
	}

	task, err := s.repo.CreateTask(r.Context(), req.Task())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, task, http.StatusCreated)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var patch domain.TaskPatch
	if err := decodeValid(r, &patch); err != nil {
		s.respondError(w, "Invalid task data", http.StatusBadRequest)
		return
	}

	task, err := s.repo.UpdateTask(r.Context(), id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, task, http.StatusOK)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	err = s.repo.DeleteTask(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repo.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, settings, http.StatusOK)
}

// updateSettings also retunes the live timer to the new work duration.
// A work duration below the timer's floor is stored as the floor.
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.PomodoroSettings
	if err := decodeValid(r, &req); err != nil {
		s.respondError(w, "Invalid settings data", http.StatusBadRequest)
		return
	}
	req.WorkDuration = max(domain.MinFocusMinutes, req.WorkDuration)

	settings, err := s.repo.UpdateSettings(r.Context(), req)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.timer.Configure(settings.WorkDuration)
	s.respondJSON(w, settings, http.StatusOK)
}

type moodView struct {
	domain.Mood
	WellnessScore int      `json:"wellnessScore"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

type moodRequest struct {
	Mood   int     `json:"mood"`
	Energy int     `json:"energy"`
	Focus  int     `json:"focus"`
	Notes  *string `json:"notes"`
}

func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.repo.ListMoods(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	views := make([]moodView, 0, len(moods))
	for _, m := range moods {
		views = append(views, moodView{Mood: m, WellnessScore: m.WellnessScore()})
	}
	s.respondJSON(w, views, http.StatusOK)
}

func (s *Server) createMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, "Invalid mood data", http.StatusBadRequest)
		return
	}
	mood := domain.Mood{Mood: req.Mood, Energy: req.Energy, Focus: req.Focus, Notes: req.Notes}
	if err := domain.Validate(mood); err != nil {
		s.respondError(w, "Invalid mood data", http.StatusBadRequest)
		return
	}

	created, err := s.repo.CreateMood(r.Context(), mood)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, moodView{
		Mood:          created,
		WellnessScore: created.WellnessScore(),
		Suggestions:   created.Suggestions(),
	}, http.StatusCreated)
}

type messageView struct {
	domain.Message
	HTML string `json:"html,omitempty"`
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.chat.History(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	withHTML := r.URL.Query().Get("format") == "html"
	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		v := messageView{Message: m}
		if withHTML {
			html, err := chat.RenderMarkdown(m.Content)
			if err != nil {
				s.logger.Warn("failed to render message", "messageID", m.ID, "err", err)
			}
			v.HTML = html
		}
		views = append(views, v)
	}
	s.respondJSON(w, views, http.StatusOK)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, "Invalid message data", http.StatusBadRequest)
		return
	}

	exchange, err := s.chat.Send(r.Context(), req.Content)
	if errors.Is(err, domain.ErrInvalid) {
		s.respondError(w, "Invalid message data", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondJSON(w, exchange, http.StatusCreated)
}

func (s *Server) chatTip(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, map[string]string{"tip": chat.Tip(r.URL.Query().Get("draft"))}, http.StatusOK)
}
