package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hperssn/focusnest/internal/domain"
)

type timerView struct {
	domain.Snapshot
	Display string `json:"display"`
}

func newTimerView(s domain.Snapshot) timerView {
	return timerView{Snapshot: s, Display: s.Display()}
}

func (s *Server) getTimer(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, newTimerView(s.timer.Snapshot()), http.StatusOK)
}

func (s *Server) startTimer(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, newTimerView(s.timer.Start()), http.StatusOK)
}

func (s *Server) pauseTimer(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, newTimerView(s.timer.Pause()), http.StatusOK)
}

func (s *Server) resetTimer(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, newTimerView(s.timer.Reset()), http.StatusOK)
}

// configureTimer takes {"minutes": n}. Values between 1 and the floor are
// raised to the floor by the timer; values above a day are rejected.
func (s *Server) configureTimer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Minutes <= 0 {
		s.respondError(w, "minutes must be positive", http.StatusBadRequest)
		return
	}
	if req.Minutes > domain.MaxFocusMinutes {
		s.respondError(w, fmt.Sprintf("minutes must be at most %d", domain.MaxFocusMinutes), http.StatusBadRequest)
		return
	}
	s.respondJSON(w, newTimerView(s.timer.Configure(req.Minutes)), http.StatusOK)
}
