package handlers

import (
	"net/http"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/app"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/common"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/application"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/middleware"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/response"
)

type StudentHandler struct {
	students     *app.StudentService
	drives       *app.DriveService
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewStudentHandler(students *app.StudentService, drives *app.DriveService, applications *app.ApplicationService, limiter middleware.Limiter) *StudentHandler {
	return &StudentHandler{students: students, drives: drives, applications: applications, limiter: limiter}
}

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	profile, err := h.students.GetProfile(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Phone     *string  `json:"phone"`
	CGPA      *float64 `json:"cgpa"`
	Backlogs  *int     `json:"backlogs"`
	Skills    []string `json:"skills"`
	Bio       *string  `json:"bio"`
}

func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	profile, err := h.students.UpdateProfile(r.Context(), userID, student.Update{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		CGPA:      req.CGPA,
		Backlogs:  req.Backlogs,
		Skills:    req.Skills,
		Bio:       req.Bio,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

type resumeRequest struct {
	ResumeURL string `json:"resume_url" validate:"required,url"`
}

func (h *StudentHandler) SetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req resumeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	profile, err := h.students.SetResume(r.Context(), userID, req.ResumeURL)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

type driveWithApplication struct {
	drive.Drive
	MyApplicationStatus *application.Status `json:"my_application_status,omitempty"`
}

// ListDrives serves the student board: every active drive annotated
// with the caller's application status where one exists.
func (h *StudentHandler) ListDrives(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	drives, err := h.drives.ListActive(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	apps, err := h.applications.ListByUser(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	byDrive := make(map[common.UUID]application.Status, len(apps))
	for _, item := range apps {
		byDrive[item.DriveID] = item.Status
	}
	board := make([]driveWithApplication, 0, len(drives))
	for _, d := range drives {
		entry := driveWithApplication{Drive: d}
		if status, ok := byDrive[d.ID]; ok {
			s := status
			entry.MyApplicationStatus = &s
		}
		board = append(board, entry)
	}
	response.JSON(w, http.StatusOK, board)
}

type driveDetail struct {
	drive.Drive
	Eligibility *app.EligibilityVerdict `json:"eligibility,omitempty"`
}

func (h *StudentHandler) GetDrive(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	driveID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	d, err := h.drives.Get(r.Context(), driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	detail := driveDetail{Drive: *d}
	if verdict, err := h.applications.CheckEligibility(r.Context(), userID, driveID); err == nil {
		detail.Eligibility = verdict
	}
	response.JSON(w, http.StatusOK, detail)
}

func (h *StudentHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	driveID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	verdict, err := h.applications.CheckEligibility(r.Context(), userID, driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, verdict)
}

func (h *StudentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	driveID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + driveID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), userID, driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *StudentHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.applications.ListByUser(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *StudentHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.GetForStudent(r.Context(), userID, applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	counts, err := h.applications.StudentStats(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, counts)
}
