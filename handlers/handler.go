package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/middleware"
	"social-service/portal-service/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	return v
}

// envelope is the response body used by every portal endpoint.
type envelope struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	middleware.WriteJSON(w, status, envelope{Message: message, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, err)
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	return check(dst)
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return check(dst)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Validation("invalid request payload")
	}
	return check(dst)
}

func check(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("invalid request payload")
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field: fe.Field(),
			Error: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return apperrors.Validation("invalid request payload", fields...)
}

// callerEmail returns the email of the authenticated caller.
func callerEmail(r *http.Request) (string, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok || id.Email == "" {
		return "", apperrors.Unauthorized("authentication required")
	}
	return id.Email, nil
}

// authorizeRole lets anyone register with the student role. Any other role
// may only be granted by an administrator.
func authorizeRole(r *http.Request, admins middleware.AdminResolver, role string) error {
	if models.NormalizeRole(role) == models.RoleStudent {
		return nil
	}
	email, err := callerEmail(r)
	if err != nil {
		return err
	}
	_, err = admins.ResolveAdmin(r.Context(), email)
	return err
}
