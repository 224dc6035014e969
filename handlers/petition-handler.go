package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"social-service/portal-service/logging"
	"social-service/portal-service/middleware"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type PetitionHandler struct {
	Service *services.PetitionService
}

func NewPetitionHandler(service *services.PetitionService) *PetitionHandler {
	return &PetitionHandler{Service: service}
}

func (h *PetitionHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	petition, err := h.Service.Enroll(r.Context(), req.StudentID, req.ProjectID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "enrolled", petition)
}

func (h *PetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewPetition
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	petition, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "petition created", petition)
}

func (h *PetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	petitions, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", petitions)
}

// Mine lists the caller's own petitions.
func (h *PetitionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	petitions, err := h.Service.ListForEmail(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", petitions)
}

func (h *PetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	petition, err := h.Service.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", petition)
}

func (h *PetitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "petition deleted", nil)
}

func (h *PetitionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	decision, err := h.Service.Approve(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if admin, ok := middleware.AdminFrom(r.Context()); ok {
		logging.Logger.WithField("event_id", middleware.RequestID(r.Context())).
			Infof("Event ID: PETITION_APPROVED_BY, Description: Petition %s approved by %s", id, admin.Email)
	}
	respond(w, http.StatusOK, "petition approved", decision)
}

func (h *PetitionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	// An empty body rejects without a reason.
	var req models.RejectRequest
	if err := decodeOptional(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	petition, err := h.Service.Reject(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "petition rejected", petition)
}

func (h *PetitionHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	petition, err := h.Service.Unenroll(r.Context(), vars["studentId"], vars["projectId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "enrollment removed", petition)
}

func (h *PetitionHandler) IsEnrolled(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	enrolled, err := h.Service.IsEnrolled(r.Context(), vars["studentId"], vars["projectId"])
	if err != nil {
		fail(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"enrolled": enrolled})
}
