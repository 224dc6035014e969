package handlers

import (
	"encoding/json"
	"net/http"

	"social-service/portal-service/identity"
	"social-service/portal-service/middleware"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type AuthHandler struct {
	Verifier identity.Verifier
	Service  *services.AuthService
}

func NewAuthHandler(verifier identity.Verifier, service *services.AuthService) *AuthHandler {
	return &AuthHandler{Verifier: verifier, Service: service}
}

// Login verifies the caller's identity token and returns the portal record it
// maps to, creating it on first login. The token may come in a header or as
// {"token": ...} in the body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		var body models.LoginRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		verified, err := h.Verifier.Verify(r.Context(), body.Token)
		if err != nil {
			fail(w, r, err)
			return
		}
		id = verified
	}

	result, err := h.Service.Login(r.Context(), *id)
	if err != nil {
		fail(w, r, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	middleware.WriteJSON(w, status, result)
}
