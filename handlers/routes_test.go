package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-service/portal-service/identity"
	"social-service/portal-service/models"
	"social-service/portal-service/repositories/memory"
	"social-service/portal-service/services"
)

const adminEmail = "coordinacion@uca.edu.sv"

type testServer struct {
	t        *testing.T
	handler  http.Handler
	verifier *identity.JWTVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	verifier := identity.NewJWTVerifier("test-secret")
	notifications := services.NewNotificationService(store.Notifications(), store.Students())
	admins := services.NewAdministratorService(store.Administrators())

	_, err := admins.Create(context.Background(), models.NewAdministrator{
		Carnet: "ADM01",
		Name:   "Coordinación",
		Email:  adminEmail,
	})
	require.NoError(t, err)

	handler := NewRouter(Services{
		Verifier:       verifier,
		Auth:           services.NewAuthService(store.Users(), store.Students(), store.Administrators(), "@uca.edu.sv"),
		Petitions:      services.NewPetitionService(store.Petitions(), store.Projects(), store.Students(), notifications),
		Projects:       services.NewProjectService(store.Projects(), store.Students()),
		Faculties:      services.NewFacultyService(store.Faculties()),
		Careers:        services.NewCareerService(store.Careers(), store.Faculties()),
		Students:       services.NewStudentService(store.Students(), store.Careers()),
		Users:          services.NewUserService(store.Users(), store.Careers()),
		Administrators: admins,
		Notifications:  notifications,
	}, RouterOptions{RequestTimeout: 5 * time.Second, LoginRateLimit: 100, LoginRateBurst: 100})

	return &testServer{t: t, handler: handler, verifier: verifier}
}

func (s *testServer) token(email string) string {
	s.t.Helper()
	token, err := s.verifier.Sign(models.Identity{Subject: email, Email: email, Name: "Tester"}, time.Minute)
	require.NoError(s.t, err)
	return token
}

// do sends body as JSON and decodes the response into a generic map.
func (s *testServer) do(method, path, email string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(email))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func dataID(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	id, ok := data["_id"].(string)
	require.True(t, ok)
	return id
}

func (s *testServer) createProject(name string, capacity int) string {
	s.t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	status, body := s.do(http.MethodPost, "/project/create", "maria@uca.edu.sv", map[string]interface{}{
		"name":        name,
		"capacity":    capacity,
		"startDate":   start,
		"finalDate":   start.AddDate(0, 4, 0),
		"institution": "Alcaldía de San Salvador",
	})
	require.Equal(s.t, http.StatusCreated, status, body)
	return dataID(s.t, body)
}

func (s *testServer) createStudent(carnet string) string {
	s.t.Helper()
	status, body := s.do(http.MethodPost, "/student/create", "", map[string]interface{}{
		"carnet": carnet,
		"name":   "Student " + carnet,
		"email":  carnet + "@uca.edu.sv",
	})
	require.Equal(s.t, http.StatusCreated, status, body)
	return dataID(s.t, body)
}

func TestEnrollAndApproveFlow(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject("Biblioteca comunitaria", 1)
	s1 := s.createStudent("00011120")
	s2 := s.createStudent("00022220")

	status, body := s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": s1, "projectId": project})
	require.Equal(t, http.StatusCreated, status, body)
	p1 := dataID(t, body)

	status, body = s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": s1, "projectId": project})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "duplicate", body["kind"])

	status, body = s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": s2, "projectId": project})
	require.Equal(t, http.StatusCreated, status, body)
	p2 := dataID(t, body)

	status, body = s.do(http.MethodPatch, "/petition/"+p1+"/approve", adminEmail, nil)
	require.Equal(t, http.StatusOK, status, body)
	decision := body["data"].(map[string]interface{})
	assert.Equal(t, "approved", decision["petition"].(map[string]interface{})["status"])
	assert.EqualValues(t, 0, decision["project"].(map[string]interface{})["capacity"])

	status, body = s.do(http.MethodPatch, "/petition/"+p2+"/approve", adminEmail, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "capacity_conflict", body["kind"])

	status, body = s.do(http.MethodPatch, "/petition/"+p1+"/approve", adminEmail, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "state_conflict", body["kind"])

	status, body = s.do(http.MethodGet, "/petition/isEnrolled/"+s1+"/"+project, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["enrolled"])

	status, body = s.do(http.MethodGet, "/project/get/"+project, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["data"].(map[string]interface{})["capacity"])
}

func TestDecisionsRequireAdministrator(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject("Huerto escolar", 2)
	student := s.createStudent("00033320")
	_, body := s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": student, "projectId": project})
	petition := dataID(t, body)

	status, body := s.do(http.MethodPatch, "/petition/"+petition+"/approve", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["kind"])

	status, body = s.do(http.MethodPatch, "/petition/"+petition+"/approve", "00033320@uca.edu.sv", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["kind"])
}

func TestRejectWithoutBodyAndNotification(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject("Alfabetización digital", 2)
	student := s.createStudent("00044420")
	_, body := s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": student, "projectId": project})
	petition := dataID(t, body)

	status, body := s.do(http.MethodPatch, "/petition/"+petition+"/reject", adminEmail, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "rejected", body["data"].(map[string]interface{})["status"])

	status, body = s.do(http.MethodGet, "/notification/mine", "00044420@uca.edu.sv", nil)
	require.Equal(t, http.StatusOK, status, body)
	notifications := body["data"].([]interface{})
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].(map[string]interface{})["message"], "rejected")

	status, body = s.do(http.MethodGet, "/petition/mine", "00044420@uca.edu.sv", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
}

func TestUnassignFreesSeat(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject("Reforestación", 1)
	student := s.createStudent("00055520")
	_, body := s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": student, "projectId": project})
	petition := dataID(t, body)
	status, _ := s.do(http.MethodPatch, "/petition/"+petition+"/approve", adminEmail, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(http.MethodDelete, "/petition/unassign/"+student+"/"+project, "", nil)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodGet, "/project/get/"+project, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["capacity"])

	status, body = s.do(http.MethodGet, "/petition/isEnrolled/"+student+"/"+project, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["enrolled"])
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodGet, "/petition/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", body["kind"])

	status, body = s.do(http.MethodGet, "/petition/65f0c0ffee0000000000abcd", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])

	status, body = s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": "65f0c0ffee0000000000abcd"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, body["fields"], 1)
	field := body["fields"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "projectId", field["field"])

	status, body = s.do(http.MethodPost, "/project/create", "", map[string]interface{}{"name": "Sin sesión"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["kind"])

	req := httptest.NewRequest(http.MethodGet, "/petition/petitions", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginProvisionsStudentOnce(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/auth/login", "00066620@uca.edu.sv", nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "student", body["type"])
	assert.Equal(t, true, body["created"])
	assert.Equal(t, "00066620", body["user"].(map[string]interface{})["carnet"])

	status, body = s.do(http.MethodPost, "/auth/login", "00066620@uca.edu.sv", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, false, body["created"])

	status, body = s.do(http.MethodPost, "/auth/login", "", map[string]string{"token": s.token("visitor@example.com")})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "user", body["type"])

	status, _ = s.do(http.MethodPost, "/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/faculty/create", "", map[string]string{"name": "Ingeniería"})
	require.Equal(t, http.StatusCreated, status, body)
	faculty := dataID(t, body)

	status, body = s.do(http.MethodPost, "/career/create", "", map[string]string{"name": "Informática"})
	require.Equal(t, http.StatusCreated, status, body)
	career := dataID(t, body)

	status, body = s.do(http.MethodPut, "/career/"+career+"/"+faculty, "", nil)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodPut, "/career/"+career+"/"+faculty, "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "duplicate", body["kind"])

	student := s.createStudent("00077720")
	status, body = s.do(http.MethodPut, "/student/"+student+"/"+career, "", nil)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodGet, "/career/careers", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(http.MethodGet, "/faculty/faculties", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/petition/enroll", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAnonymousCallerCannotGrantAdministratorAccess(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/user/create", "", map[string]string{
		"name": "Intruso", "email": "intruso@example.com", "role": "admin",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["kind"])

	status, body = s.do(http.MethodPost, "/student/create", "", map[string]string{
		"carnet": "00099920", "name": "Intruso", "email": "00099920@uca.edu.sv", "role": "Administrator",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["kind"])

	status, body = s.do(http.MethodPost, "/administrator/create", "", map[string]string{
		"carnet": "ADM99", "name": "Intruso", "email": "intruso@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["kind"])

	status, body = s.do(http.MethodPost, "/user/create", "intruso@example.com", map[string]string{
		"name": "Intruso", "email": "intruso@example.com", "role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["kind"])

	status, body = s.do(http.MethodPost, "/administrator/create", "intruso@example.com", map[string]string{
		"carnet": "ADM99", "name": "Intruso", "email": "intruso@example.com",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["kind"])

	// A plain registration still works and grants nothing.
	status, body = s.do(http.MethodPost, "/user/create", "", map[string]string{
		"name": "Intruso", "email": "intruso@example.com",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "student", body["data"].(map[string]interface{})["role"])

	project := s.createProject("Comedor solidario", 1)
	student := s.createStudent("00088820")
	_, body = s.do(http.MethodPost, "/petition/enroll", "", map[string]string{"studentId": student, "projectId": project})
	petition := dataID(t, body)

	status, body = s.do(http.MethodDelete, "/petition/"+petition, "intruso@example.com", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["kind"])

	status, _ = s.do(http.MethodGet, "/petition/"+petition, "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdministratorGrantsRoles(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/user/create", adminEmail, map[string]string{
		"name": "Nueva coordinadora", "email": "coordinadora@example.com", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "administrator", body["data"].(map[string]interface{})["role"])

	status, body = s.do(http.MethodPost, "/administrator/create", adminEmail, map[string]string{
		"carnet": "ADM02", "name": "Dirección", "email": "direccion@uca.edu.sv",
	})
	require.Equal(t, http.StatusCreated, status, body)
	created := dataID(t, body)

	status, _ = s.do(http.MethodDelete, "/administrator/"+created, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(http.MethodDelete, "/administrator/"+created, adminEmail, nil)
	assert.Equal(t, http.StatusOK, status, body)
}
