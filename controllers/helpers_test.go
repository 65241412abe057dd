package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aquablue/aquablue-server/services"
	"github.com/aquablue/aquablue-server/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// testEnv wires controllers to a fresh in-memory database and a recording notifier
type testEnv struct {
	db         *gorm.DB
	store      *services.GormStore
	notifier   *services.MockNotifier
	dispatcher *services.Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	db := testutil.NewTestDB(t)
	notifier := services.NewMockNotifier()
	return &testEnv{
		db:         db,
		store:      services.NewGormStore(db),
		notifier:   notifier,
		dispatcher: services.NewDispatcher(notifier, time.Second, nil),
	}
}

// waitForNotifications blocks until every dispatched notification has finished
func (e *testEnv) waitForNotifications(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.dispatcher.Wait(ctx))
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "response should be valid JSON: %s", w.Body.String())
	return response
}
