package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewProject
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	project, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "project created", project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", project)
}

func (h *ProjectHandler) ByStudent(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListByStudent(r.Context(), mux.Vars(r)["studentId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", projects)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "project deleted", nil)
}
