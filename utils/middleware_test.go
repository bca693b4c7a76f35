package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildGatedApp wires a trivial handler behind the verifier and the
// user-type gate, the same shape the creator and business parties use.
func buildGatedApp(t *testing.T, gate iris.Handler) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(AccessToken) })

	app.Get("/gated", verifierMiddleware, gate, func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(t *testing.T, userType string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), 0)
	token, err := signer.Sign(AccessToken{ID: 1, UserType: userType})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func TestCreatorOnlyMiddleware(t *testing.T) {
	app := buildGatedApp(t, CreatorOnlyMiddleware)

	// Missing token never reaches the gate.
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Business token is rejected by the creator gate.
	req2 := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, "business"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for business token, got %d", resp2.Code)
	}

	// Creator token passes.
	req3 := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, "creator"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for creator token, got %d", resp3.Code)
	}
}

func TestUserIDFromTokenMiddleware(t *testing.T) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(AccessToken) })

	var gotUserID uint
	app.Get("/me", verifierMiddleware, UserIDFromTokenMiddleware, func(ctx iris.Context) {
		gotUserID = ctx.Values().Get("userID").(uint)
		ctx.JSON(iris.Map{"ok": true})
	})
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), 0)
	token, err := signer.Sign(AccessToken{ID: 42, UserType: "creator"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+string(token))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotUserID != 42 {
		t.Fatalf("expected userID 42 in request values, got %d", gotUserID)
	}
}

func TestBusinessOnlyMiddleware(t *testing.T) {
	app := buildGatedApp(t, BusinessOnlyMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "creator"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for creator token, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, "business"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for business token, got %d", resp2.Code)
	}
}
