package handlers

import (
	"net/http"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/middleware"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
)

type DriveHandler struct {
	drives *app.DriveService
}

func NewDriveHandler(drives *app.DriveService) *DriveHandler {
	return &DriveHandler{drives: drives}
}

type roundRequest struct {
	RoundName string `json:"round_name"`
	RoundType string `json:"round_type"`
	RoundDate string `json:"round_date"`
}

type createDriveRequest struct {
	CompanyID           string         `json:"company_id" validate:"required"`
	JobRole             string         `json:"job_role" validate:"required"`
	JobDescription      string         `json:"job_description"`
	PackageCTC          float64        `json:"package_ctc"`
	Location            string         `json:"location"`
	JobType             string         `json:"job_type"`
	MinCGPA             float64        `json:"min_cgpa"`
	MaxBacklogs         int            `json:"max_backlogs"`
	ApplicationDeadline string         `json:"application_deadline" validate:"required"`
	Status              string         `json:"status"`
	Rounds              []roundRequest `json:"rounds"`
}

func (h *DriveHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createDriveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	companyID, err := common.ParseUUID(req.CompanyID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"company_id": "invalid uuid"}))
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.ApplicationDeadline)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"application_deadline": "must be RFC3339"}))
		return
	}
	rounds := make([]drive.Round, 0, len(req.Rounds))
	for _, item := range req.Rounds {
		round := drive.Round{RoundName: item.RoundName, RoundType: drive.RoundType(item.RoundType)}
		if item.RoundDate != "" {
			date, err := time.Parse(time.RFC3339, item.RoundDate)
			if err != nil {
				response.Error(w, common.NewValidationError("invalid request", map[string]string{"round_date": "must be RFC3339"}))
				return
			}
			round.RoundDate = &date
		}
		rounds = append(rounds, round)
	}
	created, err := h.drives.Create(r.Context(), drive.Drive{
		CompanyID:           companyID,
		JobRole:             req.JobRole,
		JobDescription:      req.JobDescription,
		PackageCTC:          req.PackageCTC,
		Location:            req.Location,
		JobType:             req.JobType,
		MinCGPA:             req.MinCGPA,
		MaxBacklogs:         req.MaxBacklogs,
		ApplicationDeadline: deadline,
		Status:              drive.Status(req.Status),
		Rounds:              rounds,
	}, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type updateDriveRequest struct {
	JobRole             *string  `json:"job_role"`
	JobDescription      *string  `json:"job_description"`
	PackageCTC          *float64 `json:"package_ctc"`
	Location            *string  `json:"location"`
	MinCGPA             *float64 `json:"min_cgpa"`
	MaxBacklogs         *int     `json:"max_backlogs"`
	ApplicationDeadline *string  `json:"application_deadline"`
	Status              *string  `json:"status"`
}

func (h *DriveHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateDriveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	patch := drive.Patch{
		JobRole:        req.JobRole,
		JobDescription: req.JobDescription,
		PackageCTC:     req.PackageCTC,
		Location:       req.Location,
		MinCGPA:        req.MinCGPA,
		MaxBacklogs:    req.MaxBacklogs,
	}
	if req.ApplicationDeadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.ApplicationDeadline)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"application_deadline": "must be RFC3339"}))
			return
		}
		patch.ApplicationDeadline = &deadline
	}
	if req.Status != nil {
		status := drive.Status(*req.Status)
		patch.Status = &status
	}
	updated, err := h.drives.Update(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type driveStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *DriveHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req driveStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.drives.SetStatus(r.Context(), id, drive.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *DriveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.drives.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *DriveHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := drive.ListFilter{Status: drive.Status(r.URL.Query().Get("status"))}
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		companyID, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"company_id": "invalid uuid"}))
			return
		}
		filter.CompanyID = companyID
	}
	items, err := h.drives.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *DriveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.drives.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DriveHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	board, err := h.drives.Rounds(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, board)
}
