package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"social-service/portal-service/identity"
	"social-service/portal-service/metrics"
	"social-service/portal-service/middleware"
	"social-service/portal-service/services"
)

// Services bundles what the router needs to serve every endpoint.
type Services struct {
	Verifier       identity.Verifier
	Auth           *services.AuthService
	Petitions      *services.PetitionService
	Projects       *services.ProjectService
	Faculties      *services.FacultyService
	Careers        *services.CareerService
	Students       *services.StudentService
	Users          *services.UserService
	Administrators *services.AdministratorService
	Notifications  *services.NotificationService
}

type RouterOptions struct {
	CORSOrigin     string
	RequestTimeout time.Duration
	LoginRateLimit float64
	LoginRateBurst int
}

func NewRouter(s Services, opts RouterOptions) http.Handler {
	auth := middleware.RequireAuth
	admin := middleware.RequireAdmin(s.Auth)
	limiter := middleware.NewRateLimiter(opts.LoginRateLimit, opts.LoginRateBurst)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, metrics.InstrumentHandler)

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/").Subrouter()
	if opts.RequestTimeout > 0 {
		api.Use(middleware.Timeout(opts.RequestTimeout))
	}
	api.Use(middleware.Authenticate(s.Verifier))

	authHandler := NewAuthHandler(s.Verifier, s.Auth)
	api.Handle("/auth/login", limiter.Middleware(http.HandlerFunc(authHandler.Login))).Methods("POST")

	petitions := NewPetitionHandler(s.Petitions)
	api.HandleFunc("/petition/enroll", petitions.Enroll).Methods("POST")
	api.Handle("/petition/create", admin(http.HandlerFunc(petitions.Create))).Methods("POST")
	api.HandleFunc("/petition/petitions", petitions.List).Methods("GET")
	api.Handle("/petition/mine", auth(http.HandlerFunc(petitions.Mine))).Methods("GET")
	api.HandleFunc("/petition/isEnrolled/{studentId}/{projectId}", petitions.IsEnrolled).Methods("GET")
	api.HandleFunc("/petition/unassign/{studentId}/{projectId}", petitions.Unassign).Methods("DELETE")
	api.Handle("/petition/{id}/approve", admin(http.HandlerFunc(petitions.Approve))).Methods("PATCH")
	api.Handle("/petition/{id}/reject", admin(http.HandlerFunc(petitions.Reject))).Methods("PATCH")
	api.HandleFunc("/petition/{id}", petitions.Get).Methods("GET")
	api.Handle("/petition/{id}", admin(http.HandlerFunc(petitions.Delete))).Methods("DELETE")

	projects := NewProjectHandler(s.Projects)
	api.Handle("/project/create", auth(http.HandlerFunc(projects.Create))).Methods("POST")
	api.HandleFunc("/project/projects", projects.List).Methods("GET")
	api.HandleFunc("/project/get/{id}", projects.Get).Methods("GET")
	api.Handle("/project/student/{studentId}", auth(http.HandlerFunc(projects.ByStudent))).Methods("GET")
	api.Handle("/project/{id}", auth(http.HandlerFunc(projects.Delete))).Methods("DELETE")

	faculties := NewFacultyHandler(s.Faculties)
	api.HandleFunc("/faculty/create", faculties.Create).Methods("POST")
	api.HandleFunc("/faculty/faculties", faculties.List).Methods("GET")
	api.HandleFunc("/faculty/get/{id}", faculties.Get).Methods("GET")
	api.HandleFunc("/faculty/{id}", faculties.Delete).Methods("DELETE")

	careers := NewCareerHandler(s.Careers)
	api.HandleFunc("/career/create", careers.Create).Methods("POST")
	api.HandleFunc("/career/careers", careers.List).Methods("GET")
	api.HandleFunc("/career/get/{id}", careers.Get).Methods("GET")
	api.HandleFunc("/career/{careerId}/{facultyId}", careers.AssignFaculty).Methods("PUT")
	api.HandleFunc("/career/{id}", careers.Delete).Methods("DELETE")

	students := NewStudentHandler(s.Students, s.Auth)
	api.HandleFunc("/student/create", students.Create).Methods("POST")
	api.HandleFunc("/student/students", students.List).Methods("GET")
	api.HandleFunc("/student/get/{id}", students.Get).Methods("GET")
	api.HandleFunc("/student/{studentId}/{careerId}", students.AssignCareer).Methods("PUT")
	api.Handle("/student/{id}", auth(http.HandlerFunc(students.Delete))).Methods("DELETE")

	users := NewUserHandler(s.Users, s.Auth)
	api.HandleFunc("/user/create", users.Create).Methods("POST")
	api.HandleFunc("/user/users", users.List).Methods("GET")
	api.HandleFunc("/user/get/{id}", users.Get).Methods("GET")
	api.HandleFunc("/user/{userId}/{careerId}", users.AssignCareer).Methods("PUT")
	api.HandleFunc("/user/{id}", users.Delete).Methods("DELETE")

	administrators := NewAdministratorHandler(s.Administrators)
	api.Handle("/administrator/create", admin(http.HandlerFunc(administrators.Create))).Methods("POST")
	api.HandleFunc("/administrator/administrators", administrators.List).Methods("GET")
	api.HandleFunc("/administrator/get/{id}", administrators.Get).Methods("GET")
	api.Handle("/administrator/{id}", admin(http.HandlerFunc(administrators.Delete))).Methods("DELETE")

	notifications := NewNotificationHandler(s.Notifications)
	api.Handle("/notification/mine", auth(http.HandlerFunc(notifications.Mine))).Methods("GET")
	api.Handle("/notification/{id}/read", auth(http.HandlerFunc(notifications.MarkRead))).Methods("PATCH")

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return middleware.EnableCORS(origin)(r)
}
