package handlers

import (
	"net/http"
	"strings"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/middleware"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
)

type HODHandler struct {
	students *app.StudentService
	stats    *app.StatsService
}

func NewHODHandler(students *app.StudentService, stats *app.StatsService) *HODHandler {
	return &HODHandler{students: students, stats: stats}
}

func (h *HODHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	hodUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var approved *bool
	switch strings.TrimSpace(r.URL.Query().Get("status")) {
	case "":
	case "pending":
		value := false
		approved = &value
	case "approved":
		value := true
		approved = &value
	default:
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status must be pending or approved"}))
		return
	}
	items, err := h.students.ListForHOD(r.Context(), hodUserID, approved, r.URL.Query().Get("search"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *HODHandler) Approve(w http.ResponseWriter, r *http.Request) {
	hodUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	studentID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.students.Approve(r.Context(), hodUserID, studentID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

type rejectStudentRequest struct {
	Reason string `json:"reason"`
}

func (h *HODHandler) Reject(w http.ResponseWriter, r *http.Request) {
	hodUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	studentID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req rejectStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.students.Reject(r.Context(), hodUserID, studentID, req.Reason); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

type bulkApproveRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1"`
}

func (h *HODHandler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	hodUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req bulkApproveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids := make([]common.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"student_ids": "contains an invalid uuid"}))
			return
		}
		ids = append(ids, id)
	}
	result, err := h.students.BulkApprove(r.Context(), hodUserID, ids)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *HODHandler) Stats(w http.ResponseWriter, r *http.Request) {
	hodUserID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	counts, err := h.stats.DepartmentOverview(r.Context(), hodUserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, counts)
}
