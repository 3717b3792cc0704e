package handler

import (
	"net/http"

	"coursemart/internal/model"
	"coursemart/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles catalogue requests.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("handler", "course").Logger(),
	}
}

// List handles GET /courses requests with optional category and query filters.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.CourseFilter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("query"),
	}

	courses, err := h.service.Search(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if courses == nil {
		courses = []model.Course{}
	}

	writeJSON(w, http.StatusOK, model.CoursesResponse{Courses: courses})
}

// GetByID handles GET /courses/{id} requests.
func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrCourseNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	course, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CourseResponse{Course: *course})
}

// Create handles POST /courses requests.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, err := currentUserID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.CreateCourseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	course, err := h.service.Create(r.Context(), adminID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.CourseResponse{Course: *course})
}

// Update handles PUT /courses/{id} requests.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrCourseNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.UpdateCourseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	course, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CourseResponse{Course: *course})
}

// Delete handles DELETE /courses/{id} requests.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", model.ErrCourseNotFound)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse())
}
