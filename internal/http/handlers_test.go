package http_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/FarhanHaider999/NextStay/internal/domain"
	"github.com/FarhanHaider999/NextStay/internal/repo"
	"github.com/FarhanHaider999/NextStay/internal/security"
)

// brokenStore simulates a store outage on insert.
type brokenStore struct {
	*repo.Memory
}

func (brokenStore) CreateUser(ctx context.Context, u *domain.User) error {
	return errors.New("connection reset by peer")
}

func Test_Register_Login_Me(t *testing.T) {
	env := newTestEnv(t)

	// 1) REGISTER
	w := env.register("john@example.com", "StrongP@ss1", "John")
	if w.Code != http.StatusCreated {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}
	reg := parseAuth(t, w.Body.Bytes())
	if reg.Data.Token == "" {
		t.Fatal("register returned no token")
	}
	if reg.Data.User["role"] != "tenant" {
		t.Fatalf("default role: got %v", reg.Data.User["role"])
	}
	if reg.Data.User["emailVerified"] != false {
		t.Fatal("new account must start unverified")
	}

	// 2) LOGIN
	w = env.login("john@example.com", "StrongP@ss1")
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	lr := parseAuth(t, w.Body.Bytes())

	// the session token decodes to the registered user id
	claims, err := security.ParseSession(testSecret, lr.Data.Token)
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	if claims.UserID != reg.Data.User["id"] {
		t.Fatalf("token user id %q != registered id %v", claims.UserID, reg.Data.User["id"])
	}

	// 3) ME
	w = env.do("GET", "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + lr.Data.Token})
	if w.Code != http.StatusOK {
		t.Fatalf("me code=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"email":"john@example.com"`) {
		t.Fatalf("me body=%s", w.Body.String())
	}
}

func Test_Register_DuplicateEmail_CaseInsensitive(t *testing.T) {
	env := newTestEnv(t)

	if w := env.register("john@example.com", "StrongP@ss1", "John"); w.Code != 201 {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	w := env.register("John@Example.COM", "OtherP@ss1", "Johnny")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Email already exists") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func Test_Register_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.Handler.Store = brokenStore{env.Store}

	w := env.register("john@example.com", "StrongP@ss1", "John")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "Email already exists") {
		t.Fatalf("insert failure misreported as duplicate: %s", w.Body.String())
	}
}

func Test_Register_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"short password", `{"name":"John","email":"a@b.com","password":"12345"}`},
		{"bad email", `{"name":"John","email":"not-an-email","password":"StrongP@ss1"}`},
		{"short name", `{"name":"J","email":"a@b.com","password":"StrongP@ss1"}`},
		{"bad role", `{"name":"John","email":"a@b.com","password":"StrongP@ss1","role":"admin"}`},
		{"broken json", `{"name":`},
	}
	for _, tc := range cases {
		w := env.do("POST", "/api/auth/register", tc.body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func Test_Login_EnumerationResistance(t *testing.T) {
	env := newTestEnv(t)

	if w := env.register("known@example.com", "StrongP@ss1", "Known"); w.Code != 201 {
		t.Fatalf("register: %d", w.Code)
	}

	wrongPass := env.login("known@example.com", "WrongP@ss1")
	noAccount := env.login("unknown@example.com", "StrongP@ss1")

	if wrongPass.Code != http.StatusBadRequest || noAccount.Code != http.StatusBadRequest {
		t.Fatalf("codes: %d vs %d", wrongPass.Code, noAccount.Code)
	}
	if wrongPass.Body.String() != noAccount.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", wrongPass.Body.String(), noAccount.Body.String())
	}
}

func Test_Responses_NeverLeakSecrets(t *testing.T) {
	env := newTestEnv(t)

	w := env.register("leak@example.com", "StrongP@ss1", "Leak")
	if w.Code != 201 {
		t.Fatalf("register: %d", w.Code)
	}
	lr := parseAuth(t, w.Body.Bytes())

	me := env.do("GET", "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + lr.Data.Token})
	login := env.login("leak@example.com", "StrongP@ss1")

	for _, body := range []string{w.Body.String(), me.Body.String(), login.Body.String()} {
		for _, forbidden := range []string{"password", "verificationToken", "resetPasswordToken"} {
			if strings.Contains(body, forbidden) {
				t.Fatalf("response leaks %q: %s", forbidden, body)
			}
		}
	}
}
