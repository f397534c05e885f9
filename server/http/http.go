package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/identity/directory"
	"github.com/w-h-a/identity/internal/service/resolver"
	"github.com/w-h-a/identity/pipeline"
)

type handler struct {
	service *resolver.Service
}

type resolveRequest struct {
	UserID     string          `json:"user_id,omitempty"`
	CameraID   string          `json:"camera_id,omitempty"`
	MicID      string          `json:"mic_id,omitempty"`
	Utterances []string        `json:"utterances,omitempty"`
	Session    json.RawMessage `json:"session,omitempty"`
}

type enrollRequest struct {
	UserID string `json:"user_id"`
	Signal string `json:"signal"` // base64-encoded frame or clip
}

func (h *handler) resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rc := h.service.Resolve(r.Context(), pipeline.Context{
		UserID:     req.UserID,
		CameraID:   req.CameraID,
		MicID:      req.MicID,
		Utterances: req.Utterances,
		Session:    req.Session,
	})

	writeJSON(w, http.StatusOK, resolveRequest{
		UserID:     rc.UserID,
		CameraID:   rc.CameraID,
		MicID:      rc.MicID,
		Utterances: rc.Utterances,
		Session:    rc.Session,
	})
}

func (h *handler) enroll(enroll func(r *http.Request, userID string, signal []byte) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		signal, err := base64.StdEncoding.DecodeString(req.Signal)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := enroll(r, req.UserID, signal); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, directory.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *handler) addUser(w http.ResponseWriter, r *http.Request) {
	var user directory.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.service.Directory().Add(r.Context(), &user)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := h.service.Directory().Get(r.Context(), userID)
	if errors.Is(err, directory.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Directory().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var user directory.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user.UserID = mux.Vars(r)["id"]

	updated, err := h.service.Directory().Update(r.Context(), &user)
	if errors.Is(err, directory.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	err := h.service.Directory().Delete(r.Context(), userID)
	if errors.Is(err, directory.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// NewRouter wires the resolve, enrollment, and user admin endpoints.
func NewRouter(service *resolver.Service) *mux.Router {
	h := &handler{service: service}

	r := mux.NewRouter()

	r.HandleFunc("/v1/resolve", h.resolve).Methods(http.MethodPost)

	r.HandleFunc("/v1/enroll/face", h.enroll(func(r *http.Request, userID string, signal []byte) error {
		return h.service.EnrollFace(r.Context(), userID, signal)
	})).Methods(http.MethodPost)
	r.HandleFunc("/v1/enroll/voice", h.enroll(func(r *http.Request, userID string, signal []byte) error {
		return h.service.EnrollVoice(r.Context(), userID, signal)
	})).Methods(http.MethodPost)

	r.HandleFunc("/v1/users", h.addUser).Methods(http.MethodPost)
	r.HandleFunc("/v1/users", h.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{id}", h.getUser).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{id}", h.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/v1/users/{id}", h.deleteUser).Methods(http.MethodDelete)

	return r
}
