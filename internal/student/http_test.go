package student_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-orm/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, strategy student.IDStrategy) (chi.Router, student.Repository) {
	t.Helper()
	repo, _ := setupRepository(t, strategy)
	handler := student.NewHandler(student.NewService(repo, nil, discardLogger()), discardLogger())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router, repo
}

func do(t *testing.T, router http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndGet(t *testing.T) {
	router, _ := setupRouter(t, student.IDStore)

	w := do(t, router, http.MethodPost, "/api/students", map[string]interface{}{
		"name":        "Lee",
		"dateOfBirth": "1999-01-01",
		"group":       "DAISY",
		"note":        "only in memory",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created student.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Positive(t, created.ID)

	w = do(t, router, http.MethodGet, "/api/students/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	expectedJSON := `{
		"id": 1,
		"name": "Lee",
		"dateOfBirth": "1999-01-01T00:00:00Z",
		"group": "DAISY"
	}`
	assert.JSONEq(t, expectedJSON, w.Body.String())
}

func TestHandler_CreateValidation(t *testing.T) {
	router, _ := setupRouter(t, student.IDStore)

	cases := map[string]map[string]interface{}{
		"missing name":  {"dateOfBirth": "1999-01-01"},
		"unknown group": {"name": "Lee", "group": "TULIP"},
		"bad date":      {"name": "Lee", "dateOfBirth": "01/01/1999"},
		"negative id":   {"name": "Lee", "id": -3},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/students", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_CallerAssignedConflict(t *testing.T) {
	router, _ := setupRouter(t, student.IDCaller)
	payload := map[string]interface{}{"id": 1, "name": "Jack", "dateOfBirth": "2000-01-01", "group": "ROSE"}

	w := do(t, router, http.MethodPost, "/api/students", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodPost, "/api/students", payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPost, "/api/students", map[string]interface{}{"name": "NoID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateListDelete(t *testing.T) {
	router, repo := setupRouter(t, student.IDStore)
	ctx := context.Background()

	for _, s := range []*student.Student{
		{Name: "Lee", DateOfBirth: date(1999, 1, 1), Group: student.GroupDaisy},
		{Name: "Amal", DateOfBirth: date(1980, 1, 1), Group: student.GroupLotus},
	} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	w := do(t, router, http.MethodPut, "/api/students/2", map[string]interface{}{
		"name": "Amal", "dateOfBirth": "1980-01-01", "group": "ROSE",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []student.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	require.Len(t, all, 2)
	assert.Equal(t, student.GroupRose, all[1].Group)

	w = do(t, router, http.MethodDelete, "/api/students/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodDelete, "/api/students/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPut, "/api/students/99", map[string]interface{}{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_BadIDs(t *testing.T) {
	router, _ := setupRouter(t, student.IDStore)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/students/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/students/0", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/students/7", nil).Code)
}
