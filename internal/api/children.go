package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Children ───────────────────────────────────────────────────────────────

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	var req ChildSignupRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.CreateChild(r.Context(), req.signup())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetChild(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Child(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateChild(w http.ResponseWriter, r *http.Request) {
	var req ChildUpdateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.UpdateChild(r.Context(), chi.URLParam(r, "id"), req.update())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteChild(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Level(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: days %q", domain.ErrInvalidRange, v))
			return
		}
		days = n
	}
	sum, err := s.svc.Summary(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("today"), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// ─── Habit Logging ──────────────────────────────────────────────────────────

func (s *Server) dayOrToday(date string) string {
	if date == "" {
		return s.svc.Today()
	}
	return date
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.SetWater(r.Context(), chi.URLParam(r, "id"), s.dayOrToday(req.Date), req.Count)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHabit(w http.ResponseWriter, r *http.Request) {
	var req HabitRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.ToggleHabit(r.Context(), chi.URLParam(r, "id"),
		s.dayOrToday(req.Date), domain.HabitKind(req.Kind))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePoop(w http.ResponseWriter, r *http.Request) {
	var req PoopRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.AddBowelMovement(r.Context(), chi.URLParam(r, "id"),
		s.dayOrToday(req.Date), domain.PoopType(req.Type))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Gacha & Rewards ────────────────────────────────────────────────────────

func (s *Server) handleGacha(w http.ResponseWriter, r *http.Request) {
	var req GachaRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Pull(r.Context(), chi.URLParam(r, "id"), domain.TicketTier(req.Tier))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	c, redeemed, err := s.svc.Redeem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "rewardID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"child":    c,
		"redeemed": redeemed,
	})
}
