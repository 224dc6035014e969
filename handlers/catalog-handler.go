package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type FacultyHandler struct {
	Service *services.FacultyService
}

func NewFacultyHandler(service *services.FacultyService) *FacultyHandler {
	return &FacultyHandler{Service: service}
}

func (h *FacultyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewFaculty
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	faculty, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "faculty created", faculty)
}

func (h *FacultyHandler) List(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", faculties)
}

func (h *FacultyHandler) Get(w http.ResponseWriter, r *http.Request) {
	faculty, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", faculty)
}

func (h *FacultyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "faculty deleted", nil)
}

type CareerHandler struct {
	Service *services.CareerService
}

func NewCareerHandler(service *services.CareerService) *CareerHandler {
	return &CareerHandler{Service: service}
}

func (h *CareerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewCareer
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	career, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "career created", career)
}

func (h *CareerHandler) List(w http.ResponseWriter, r *http.Request) {
	careers, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", careers)
}

func (h *CareerHandler) Get(w http.ResponseWriter, r *http.Request) {
	career, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", career)
}

func (h *CareerHandler) AssignFaculty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	career, err := h.Service.AssignFaculty(r.Context(), vars["careerId"], vars["facultyId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "faculty assigned", career)
}

func (h *CareerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "career deleted", nil)
}
