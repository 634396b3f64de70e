package v1

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/enrollhq/enroll/internal/dto"
	"github.com/enrollhq/enroll/internal/entity"
	"github.com/enrollhq/enroll/internal/infrastructure/processor"
	"github.com/enrollhq/enroll/internal/repo"
	"github.com/enrollhq/enroll/internal/repo/persistent"
	"github.com/enrollhq/enroll/internal/usecase/directory"
	"github.com/enrollhq/enroll/internal/usecase/dispatch"
	"github.com/enrollhq/enroll/internal/usecase/lifecycle"
	"github.com/enrollhq/enroll/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, dispatchURLs ...string) *fiber.App {
	t.Helper()

	base := t.TempDir()
	roots := repo.Roots{
		Pending:  filepath.Join(base, "pending"),
		Approved: filepath.Join(base, "approved"),
		Rejected: filepath.Join(base, "rejected"),
		Paused:   filepath.Join(base, "paused"),
	}
	store := persistent.NewRecordStore(roots)
	l := logger.New("error")

	primary, secondary := "http://127.0.0.1:1", "http://127.0.0.1:1"
	if len(dispatchURLs) == 2 {
		primary, secondary = dispatchURLs[0], dispatchURLs[1]
	}

	app := fiber.New()
	NewEntityRoutes(
		app.Group("/v1"),
		lifecycle.New(store, roots, processor.New(240, 240), nil, l),
		directory.New(store, roots, 10, 100, l),
		dispatch.New(&http.Client{Timeout: 2 * time.Second}, primary, secondary, l),
		l,
	)

	return app
}

func imageDataURL(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

var adminHeaders = map[string]string{"X-Auth-User": "root", "X-Auth-Role": "admin"}

func TestTransitionSubmitAndApprove(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username":   "ca_amira",
		"nationalId": "29901011234567",
		"info":       map[string]string{"name": "Amira", "government": "Cairo"},
		"imageData":  imageDataURL(t, 400, 400),
		"action":     "submit",
	}, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var submitBody struct {
		Success   bool           `json:"success"`
		Record    *entity.Record `json:"record"`
		SavedPath string         `json:"savedPath"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitBody))
	assert.True(t, submitBody.Success)
	assert.Equal(t, entity.StatusPending, submitBody.Record.Status)
	assert.NotEmpty(t, submitBody.SavedPath)

	resp = doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username": "ca_amira",
		"action":   "approve",
	}, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/v1/entities?status=approved", nil, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listBody dto.ListResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listBody))
	require.Len(t, listBody.Items, 1)
	assert.Equal(t, "ca_amira", listBody.Items[0].Username)
}

func TestTransitionValidation(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username": "ca_amira",
		"action":   "promote",
	}, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username":  "ca_amira",
		"action":    "submit",
		"imageData": "%%%not-base64%%%",
	}, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username": "ghost",
		"action":   "approve",
	}, adminHeaders)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListGroupedWhenNoStatus(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/v1/entities", nil, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grouped map[string][]*entity.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grouped))
	assert.Contains(t, grouped, "pending")
	assert.Contains(t, grouped, "approved")
	assert.Contains(t, grouped, "rejected")
	assert.Contains(t, grouped, "paused")
}

func TestListScopedByHeaders(t *testing.T) {
	app := setupApp(t)

	for _, username := range []string{"ca_one", "gz_two"} {
		resp := doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
			"username":  username,
			"imageData": imageDataURL(t, 300, 300),
			"action":    "submit",
		}, adminHeaders)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/v1/entities?status=pending", nil, map[string]string{
		"X-Auth-User":        "clerk",
		"X-Auth-Role":        "editor",
		"X-Auth-Governments": "Cairo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listBody dto.ListResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listBody))
	require.Len(t, listBody.Items, 1)
	assert.Equal(t, "ca_one", listBody.Items[0].Username)
}

func TestGetEntityImage(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/v1/entities/transition", map[string]any{
		"username":  "ca_amira",
		"imageData": imageDataURL(t, 300, 300),
		"action":    "submit",
	}, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/v1/entities/pending/ca_amira/image", nil, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())

	resp = doJSON(t, app, http.MethodGet, "/v1/entities/pending/ghost/image", nil, adminHeaders)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodDelete, "/v1/entities/ca_amira", nil, map[string]string{
		"X-Auth-User": "clerk",
		"X-Auth-Role": "editor",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/v1/entities/ca_amira", nil, adminHeaders)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatchEndpoint(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(okSrv.Close)
	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failSrv.Close)

	app := setupApp(t, okSrv.URL, failSrv.URL)

	resp := doJSON(t, app, http.MethodPost, "/v1/status/dispatch", map[string]string{
		"username": "ca_amira",
		"status":   "block",
	}, adminHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.DispatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.True(t, result.Primary.OK)
	assert.False(t, result.Secondary.OK)

	resp = doJSON(t, app, http.MethodPost, "/v1/status/dispatch", map[string]string{
		"username": "",
		"status":   "block",
	}, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDispatchBothDown(t *testing.T) {
	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failSrv.Close)

	app := setupApp(t, failSrv.URL, failSrv.URL)

	resp := doJSON(t, app, http.MethodPost, "/v1/status/dispatch", map[string]string{
		"username": "ca_amira",
		"status":   "block",
	}, adminHeaders)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var result dto.DispatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.Primary.Status)
	assert.Equal(t, http.StatusInternalServerError, result.Secondary.Status)
}
