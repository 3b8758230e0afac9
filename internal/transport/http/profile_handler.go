package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"game-arena/internal/app"
	"game-arena/internal/domain"
	"go.uber.org/zap"
)

// ProfileHandler caches the signed-in user's record so finished games can
// merge earned XP into it.
type ProfileHandler struct {
	profiles app.ProfileStore
	log      *zap.Logger
}

func NewProfileHandler(profiles app.ProfileStore, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{profiles: profiles, log: log}
}

// Register mounts GET and PUT /profiles/{id}.
func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /profiles/{id}", h.Get)
	mux.HandleFunc("PUT /profiles/{id}", h.Put)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return
	}
	profile, err := h.profiles.Get(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.log.Error("get profile failed", zap.Int64("student_id", id), zap.Error(err))
		http.Error(w, "profile unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Put replaces the cached record; the id in the path wins over the body.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid profile id", http.StatusBadRequest)
		return
	}
	var profile domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid profile payload", http.StatusBadRequest)
		return
	}
	profile.ID = id
	if err := h.profiles.Save(r.Context(), profile); err != nil {
		h.log.Error("save profile failed", zap.Int64("student_id", id), zap.Error(err))
		http.Error(w, "profile unavailable", http.StatusInternalServerError)
		return
	}
	h.log.Debug("profile cached", zap.Int64("student_id", id))
	writeJSON(w, http.StatusOK, profile)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
