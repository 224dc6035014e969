package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"social-service/portal-service/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func (h *NotificationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	notifications, err := h.Service.ListForEmail(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	email, err := callerEmail(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.Service.MarkRead(r.Context(), email, mux.Vars(r)["id"]); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "notification read", nil)
}
