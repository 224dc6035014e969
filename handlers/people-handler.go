package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"social-service/portal-service/middleware"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type StudentHandler struct {
	Service *services.StudentService
	Admins  middleware.AdminResolver
}

func NewStudentHandler(service *services.StudentService, admins middleware.AdminResolver) *StudentHandler {
	return &StudentHandler{Service: service, Admins: admins}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewStudent
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if err := authorizeRole(r, h.Admins, req.Role); err != nil {
		fail(w, r, err)
		return
	}
	student, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "student created", student)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", students)
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", student)
}

func (h *StudentHandler) AssignCareer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	student, err := h.Service.AssignCareer(r.Context(), vars["studentId"], vars["careerId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "career assigned", student)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "student deleted", nil)
}

type UserHandler struct {
	Service *services.UserService
	Admins  middleware.AdminResolver
}

func NewUserHandler(service *services.UserService, admins middleware.AdminResolver) *UserHandler {
	return &UserHandler{Service: service, Admins: admins}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewUser
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if err := authorizeRole(r, h.Admins, req.Role); err != nil {
		fail(w, r, err)
		return
	}
	user, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "user created", user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", user)
}

func (h *UserHandler) AssignCareer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, err := h.Service.AssignCareer(r.Context(), vars["userId"], vars["careerId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "career assigned", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "user deleted", nil)
}

type AdministratorHandler struct {
	Service *services.AdministratorService
}

func NewAdministratorHandler(service *services.AdministratorService) *AdministratorHandler {
	return &AdministratorHandler{Service: service}
}

func (h *AdministratorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewAdministrator
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	admin, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "administrator created", admin)
}

func (h *AdministratorHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", admins)
}

func (h *AdministratorHandler) Get(w http.ResponseWriter, r *http.Request) {
	admin, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", admin)
}

func (h *AdministratorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "administrator deleted", nil)
}
