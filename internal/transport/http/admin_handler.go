package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quiz-roulette/internal/app"
	"quiz-roulette/internal/domain"
)

// AdminHandler exposes the admin panel operations as a small JSON API.
// The gate is a plaintext compare, so the secret is simply re-sent with
// each mutating request.
type AdminHandler struct {
	admin *app.Admin
}

func NewAdminHandler(admin *app.Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Register mounts the admin routes on the mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/login", h.login)
	mux.HandleFunc("GET /admin/state", h.getState)
	mux.HandleFunc("PUT /admin/state", h.putState)
	mux.HandleFunc("GET /admin/settings", h.getSettings)
	mux.HandleFunc("PUT /admin/settings", h.putSettings)
	mux.HandleFunc("POST /admin/reset", h.reset)
	mux.HandleFunc("POST /admin/participants", h.addParticipant)
	mux.HandleFunc("PUT /admin/participants/{id}", h.renameParticipant)
	mux.HandleFunc("POST /admin/participants/{id}/toggle", h.toggleParticipant)
	mux.HandleFunc("DELETE /admin/participants/{id}", h.deleteParticipant)
	mux.HandleFunc("POST /admin/questions", h.addQuestion)
	mux.HandleFunc("PUT /admin/questions/{id}", h.updateQuestion)
	mux.HandleFunc("DELETE /admin/questions/{id}", h.deleteQuestion)
}

type loginRequest struct {
	Secret string `json:"secret"`
}

type loginResponse struct {
	OK bool `json:"ok"`
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, loginResponse{OK: h.admin.VerifyGate(r.Context(), req.Secret)})
}

func (h *AdminHandler) getState(w http.ResponseWriter, r *http.Request) {
	state, err := h.admin.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, state)
}

func (h *AdminHandler) putState(w http.ResponseWriter, r *http.Request) {
	var state domain.RoundState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.admin.SaveState(r.Context(), state); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, state)
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, settings)
}

func (h *AdminHandler) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.admin.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, settings)
}

func (h *AdminHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ResetRound(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type participantRequest struct {
	DisplayName string `json:"name"`
}

func (h *AdminHandler) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.admin.AddParticipant(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, p)
}

func (h *AdminHandler) renameParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.admin.RenameParticipant(r.Context(), r.PathValue("id"), req.DisplayName); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) toggleParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.TogglePlayed(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteParticipant(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type questionRequest struct {
	Prompt             string   `json:"question"`
	Choices            []string `json:"options"`
	CorrectChoiceIndex int      `json:"correctAnswer"`
}

func (h *AdminHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.admin.AddQuizItem(r.Context(), req.Prompt, req.Choices, req.CorrectChoiceIndex)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, item)
}

func (h *AdminHandler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item := domain.QuizItem{
		ID:                 r.PathValue("id"),
		Prompt:             req.Prompt,
		Choices:            req.Choices,
		CorrectChoiceIndex: req.CorrectChoiceIndex,
	}
	if err := h.admin.UpdateQuizItem(r.Context(), item); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteQuizItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrQuizItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTimeout),
		errors.Is(err, domain.ErrInvalidChoices):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload{Message: err.Error()})
}
