package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Parents ────────────────────────────────────────────────────────────────

func (s *Server) handleCreateParent(w http.ResponseWriter, r *http.Request) {
	var req ParentSignupRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.CreateParent(r.Context(), family.ParentSignup{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetParent(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Parent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := s.svc.ListChildren(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"children": children})
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	var req ChildSignupRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.AddChildForParent(r.Context(), chi.URLParam(r, "id"), req.signup())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleLinkChild(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.LinkChild(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "childID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ─── Reward Catalog ─────────────────────────────────────────────────────────

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Catalog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rewards": items})
}

func (s *Server) handleAddReward(w http.ResponseWriter, r *http.Request) {
	var req RewardItemRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.svc.AddRewardItem(r.Context(), chi.URLParam(r, "id"), req.Title, domain.RewardTier(req.Tier))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleEditReward(w http.ResponseWriter, r *http.Request) {
	var req RewardItemRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.svc.EditRewardItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"),
		req.Title, domain.RewardTier(req.Tier))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteReward(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRewardItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
