package http

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/user"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/handlers"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/http/metrics"
	httpmw "github.com/Sathviksu/College-Placement-Management-Portal/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	StudentHandler      *handlers.StudentHandler
	HODHandler          *handlers.HODHandler
	CompanyHandler      *handlers.CompanyHandler
	DriveHandler        *handlers.DriveHandler
	ApplicationHandler  *handlers.ApplicationHandler
	NotificationHandler *handlers.NotificationHandler
	StatsHandler        *handlers.StatsHandler
	MetricsHandler      *handlers.MetricsHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	Logger              *zap.SugaredLogger
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout),
	)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodGet && path == "/departments":
			r.deps.AuthHandler.Departments(w, req)
			return
		}

		if strings.HasPrefix(path, "/auth/") || strings.HasPrefix(path, "/students") ||
			strings.HasPrefix(path, "/hod") || strings.HasPrefix(path, "/tpo") ||
			strings.HasPrefix(path, "/notifications") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(r.handleProtected))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/auth/logout":
		r.deps.AuthHandler.Logout(w, req)
		return
	case req.Method == http.MethodGet && path == "/auth/me":
		r.deps.AuthHandler.Me(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications":
		r.deps.NotificationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/unread-count":
		r.deps.NotificationHandler.UnreadCount(w, req)
		return
	case req.Method == http.MethodPost && path == "/notifications/read-all":
		r.deps.NotificationHandler.MarkAllRead(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/notifications/") && strings.HasSuffix(path, "/read"):
		r.deps.NotificationHandler.MarkRead(w, req)
		return
	}

	if strings.HasPrefix(path, "/students") {
		r.handleStudent(w, req)
		return
	}
	if strings.HasPrefix(path, "/hod") {
		r.handleHOD(w, req)
		return
	}
	if strings.HasPrefix(path, "/tpo") {
		r.handleTPO(w, req)
		return
	}

	http.NotFound(w, req)
}

func (r *Router) handleStudent(w http.ResponseWriter, req *http.Request) {
	requireStudent := httpmw.RequireRole(user.RoleStudent)
	path := req.URL.Path

	var handler http.HandlerFunc
	switch {
	case req.Method == http.MethodGet && path == "/students/profile":
		handler = r.deps.StudentHandler.GetProfile
	case req.Method == http.MethodPut && path == "/students/profile":
		handler = r.deps.StudentHandler.UpdateProfile
	case req.Method == http.MethodPut && path == "/students/resume":
		handler = r.deps.StudentHandler.SetResume
	case req.Method == http.MethodGet && path == "/students/drives":
		handler = r.deps.StudentHandler.ListDrives
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/students/drives/"):
		handler = r.deps.StudentHandler.GetDrive
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/students/check-eligibility/"):
		handler = r.deps.StudentHandler.CheckEligibility
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/students/apply/"):
		handler = r.deps.StudentHandler.Apply
	case req.Method == http.MethodGet && path == "/students/applications":
		handler = r.deps.StudentHandler.ListApplications
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/students/applications/"):
		handler = r.deps.StudentHandler.GetApplication
	case req.Method == http.MethodGet && path == "/students/stats":
		handler = r.deps.StudentHandler.Stats
	default:
		http.NotFound(w, req)
		return
	}
	requireStudent(handler).ServeHTTP(w, req)
}

func (r *Router) handleHOD(w http.ResponseWriter, req *http.Request) {
	requireHOD := httpmw.RequireRole(user.RoleHOD)
	path := req.URL.Path

	var handler http.HandlerFunc
	switch {
	case req.Method == http.MethodGet && path == "/hod/students":
		handler = r.deps.HODHandler.ListStudents
	case req.Method == http.MethodPost && path == "/hod/students/bulk-approve":
		handler = r.deps.HODHandler.BulkApprove
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/hod/students/") && strings.HasSuffix(path, "/approve"):
		handler = r.deps.HODHandler.Approve
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/hod/students/") && strings.HasSuffix(path, "/reject"):
		handler = r.deps.HODHandler.Reject
	case req.Method == http.MethodGet && path == "/hod/stats":
		handler = r.deps.HODHandler.Stats
	default:
		http.NotFound(w, req)
		return
	}
	requireHOD(handler).ServeHTTP(w, req)
}

func (r *Router) handleTPO(w http.ResponseWriter, req *http.Request) {
	requireTPO := httpmw.RequireRole(user.RoleTPO)
	path := req.URL.Path

	var handler http.HandlerFunc
	switch {
	case req.Method == http.MethodGet && path == "/tpo/companies":
		handler = r.deps.CompanyHandler.List
	case req.Method == http.MethodPost && path == "/tpo/companies":
		handler = r.deps.CompanyHandler.Create
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tpo/companies/"):
		handler = r.deps.CompanyHandler.Get
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/tpo/companies/"):
		handler = r.deps.CompanyHandler.Update
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/tpo/companies/"):
		handler = r.deps.CompanyHandler.Delete
	case req.Method == http.MethodGet && path == "/tpo/drives":
		handler = r.deps.DriveHandler.List
	case req.Method == http.MethodPost && path == "/tpo/drives":
		handler = r.deps.DriveHandler.Create
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tpo/drives/") && strings.HasSuffix(path, "/rounds"):
		handler = r.deps.DriveHandler.Rounds
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/tpo/drives/") && strings.HasSuffix(path, "/status"):
		handler = r.deps.DriveHandler.SetStatus
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tpo/drives/"):
		handler = r.deps.DriveHandler.Get
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/tpo/drives/"):
		handler = r.deps.DriveHandler.Update
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/tpo/drives/"):
		handler = r.deps.DriveHandler.Delete
	case req.Method == http.MethodPost && path == "/tpo/applications/bulk-update":
		handler = r.deps.ApplicationHandler.BulkUpdate
	case req.Method == http.MethodGet && path == "/tpo/applications":
		handler = r.deps.ApplicationHandler.List
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/tpo/applications/") && strings.HasSuffix(path, "/status"):
		handler = r.deps.ApplicationHandler.SetStatus
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/tpo/applications/") && strings.HasSuffix(path, "/promote"):
		handler = r.deps.ApplicationHandler.Promote
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/tpo/applications/") && strings.HasSuffix(path, "/reject-round"):
		handler = r.deps.ApplicationHandler.RejectAtRound
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tpo/applications/"):
		handler = r.deps.ApplicationHandler.Get
	case req.Method == http.MethodGet && path == "/tpo/stats":
		handler = r.deps.StatsHandler.Overview
	case req.Method == http.MethodGet && path == "/tpo/analytics":
		handler = r.deps.StatsHandler.Analytics
	default:
		http.NotFound(w, req)
		return
	}
	requireTPO(handler).ServeHTTP(w, req)
}
