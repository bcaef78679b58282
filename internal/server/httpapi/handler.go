package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/akarpovs/personapi/internal/common"
	"github.com/akarpovs/personapi/internal/dbx"
	"github.com/akarpovs/personapi/internal/logging"
	"github.com/akarpovs/personapi/internal/server/models"
	"github.com/akarpovs/personapi/internal/server/persons"
	"github.com/google/uuid"
)

type PersonHandler struct {
	service *persons.Service
	logger  logging.Logger
}

func NewPersonHandler(service *persons.Service, logger logging.Logger) *PersonHandler {
	return &PersonHandler{service: service, logger: logger.With("component", "http")}
}

// Create handles POST /persons. A body that does not decode into the request
// shape counts as an invalid request (422), same as a validation failure or a
// duplicate nickname.
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	person, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrorAlreadyExists) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error(r.Context(), "create person failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/persons/"+person.ID)
	w.WriteHeader(http.StatusCreated)
}

// Get handles GET /persons/{id}. Ids that are not uuids cannot exist, so they
// 404 without reaching the service.
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	person, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "get person failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, person)
}

// Search handles GET /persons?t=term. A missing or blank term is a client
// error; no matches is an empty 200 list.
func (h *PersonHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("t")
	if strings.TrimSpace(term) == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.logger.Error(r.Context(), "search failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

// Count handles GET /persons-count.
func (h *PersonHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "count failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(strconv.FormatInt(count, 10)))
}

type HealthHandler struct {
	db dbx.Querier
}

func NewHealthHandler(db dbx.Querier) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
