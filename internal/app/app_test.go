package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-orm/internal/app"
	"student-orm/internal/config"
	"student-orm/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, strategy string) *config.Config {
	return &config.Config{
		Env: "test",
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			Path:       "file:" + t.Name() + "?mode=memory&cache=shared",
			SchemaMode: "create",
		},
		Mapping:   config.MappingConfig{IDStrategy: strategy},
		Messaging: config.MessagingConfig{Driver: "none"},
	}
}

func TestApp_WriteThenReadOverHTTP(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := app.NewWithConfig(ctx, testConfig(t, "store"), logger)
	require.NoError(t, err)
	defer a.Shutdown(ctx)

	body, _ := json.Marshal(map[string]string{"name": "Lee", "dateOfBirth": "1999-01-01", "group": "DAISY"})
	req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created student.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.Positive(t, created.ID)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuild_RejectsBadSettings(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t, "uuid")
	_, err := app.Build(ctx, cfg, logger)
	assert.Error(t, err)

	cfg = testConfig(t, "store")
	cfg.Database.SchemaMode = "migrate"
	_, err = app.Build(ctx, cfg, logger)
	assert.Error(t, err)
}

func TestBuild_ValidateModeFailsOnEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig(t, "store")
	cfg.Database.SchemaMode = "validate"
	_, err := app.Build(ctx, cfg, logger)
	assert.Error(t, err)
}

func TestBuild_CallerAssignedServiceFlow(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := app.Build(ctx, testConfig(t, "caller"), logger)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Service.CreateStudents(ctx, []*student.Student{
		{ID: 10, Name: "Lee", Group: student.GroupDaisy},
		{ID: 20, Name: "Amal", Group: student.GroupLotus},
	}))

	got, err := c.Service.GetStudentByID(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, "Amal", got.Name)
	assert.Equal(t, student.IDCaller, c.Mapper.IDStrategy())
}
