package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"student-orm/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// StudentRequest is the JSON payload accepted by create and update.
type StudentRequest struct {
	ID          int64  `json:"id" validate:"gte=0"`
	Name        string `json:"name" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Group       string `json:"group" validate:"omitempty,oneof=LOTUS ROSE DAISY"`
	Note        string `json:"note"`
}

func (req StudentRequest) toStudent() (*Student, error) {
	s := &Student{
		ID:    req.ID,
		Name:  req.Name,
		Group: Group(req.Group),
		Note:  req.Note,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(DateLayout, req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		s.DateOfBirth = dob
	}
	return s, nil
}

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/students", h.CreateStudent)
	r.Get("/students", h.GetAllStudents)
	r.Get("/students/{id}", h.GetStudent)
	r.Put("/students/{id}", h.UpdateStudent)
	r.Delete("/students/{id}", h.DeleteStudent)
}

func (h *Handler) decode(r *http.Request) (*Student, bool) {
	var req StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		return nil, false
	}
	s, err := req.toStudent()
	if err != nil {
		return nil, false
	}
	return s, true
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := h.decode(r)
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "name", student.Name)
	created, err := h.service.CreateStudent(r.Context(), student)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all students")

	students, err := h.service.GetAllStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching student by ID", "id", id)
	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	student, ok := h.decode(r)
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	student.ID = id

	h.logger.InfoContext(r.Context(), "updating student", "id", id)
	if err := h.service.UpdateStudent(r.Context(), student); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "id", id)
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrStudentNotFound):
		h.logger.InfoContext(ctx, "student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrDuplicateID):
		h.logger.InfoContext(ctx, "duplicate student id", "error", err)
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEncoding):
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
