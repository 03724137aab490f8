package handlers

import (
	"net/http"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
)

// ApplicationHandler serves the placement-cell side of the pipeline:
// direct status sets, round promotions, rejections and batch moves.
type ApplicationHandler struct {
	applications *app.ApplicationService
}

func NewApplicationHandler(applications *app.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

type setStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback"`
}

func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.SetStatus(r.Context(), applicationID, application.Status(req.Status), req.Feedback)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Promote(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Promote(r.Context(), applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type rejectRoundRequest struct {
	Feedback string `json:"feedback"`
}

func (h *ApplicationHandler) RejectAtRound(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req rejectRoundRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.RejectAtRound(r.Context(), applicationID, req.Feedback)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type bulkUpdateRequest struct {
	ApplicationIDs []string `json:"application_ids" validate:"required,min=1"`
	Status         string   `json:"status" validate:"required"`
}

func (h *ApplicationHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids := make([]common.UUID, 0, len(req.ApplicationIDs))
	for _, raw := range req.ApplicationIDs {
		id, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"application_ids": "contains an invalid uuid"}))
			return
		}
		ids = append(ids, id)
	}
	result, err := h.applications.BulkUpdate(r.Context(), ids, application.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := application.ListFilter{Status: application.Status(r.URL.Query().Get("status"))}
	if raw := r.URL.Query().Get("drive_id"); raw != "" {
		driveID, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"drive_id": "invalid uuid"}))
			return
		}
		filter.DriveID = driveID
	}
	items, err := h.applications.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
