package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/FarhanHaider999/NextStay/internal/config"
	api "github.com/FarhanHaider999/NextStay/internal/http"
	"github.com/FarhanHaider999/NextStay/internal/mail"
	"github.com/FarhanHaider999/NextStay/internal/oauth"
	"github.com/FarhanHaider999/NextStay/internal/queue"
	"github.com/FarhanHaider999/NextStay/internal/repo"
)

const testSecret = "test-secret"

type testEnv struct {
	T       *testing.T
	Store   *repo.Memory
	Handler *api.Handler
	Router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Env:            "test",
		JWTSecret:      testSecret,
		SessionTTLDays: 7,
		ClientURL:      "http://client.test",
		AdminEmail:     "admin@nextstay.test",
	}

	store := repo.NewMemory()
	g := oauth.NewGoogle("client-id", "client-secret", "http://localhost:5000/api/auth/google/callback", testSecret)
	h := api.NewHandler(store, cfg, g, queue.NewNoop(), mail.LogSender{})

	gin.SetMode(gin.TestMode)
	return &testEnv{T: t, Store: store, Handler: h, Router: api.NewRouter(h)}
}

// do issues a request against the in-process router.
func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(email, password, name string) *httptest.ResponseRecorder {
	e.T.Helper()
	return e.do("POST", "/api/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`, nil)
}

func (e *testEnv) login(email, password string) *httptest.ResponseRecorder {
	e.T.Helper()
	return e.do("POST", "/api/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, nil)
}

type authResp struct {
	Data struct {
		User  map[string]any `json:"user"`
		Token string         `json:"token"`
	} `json:"data"`
}

func parseAuth(t *testing.T, body []byte) authResp {
	t.Helper()
	var r authResp
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("parse auth response: %v; body=%s", err, body)
	}
	return r
}
