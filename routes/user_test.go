package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"creatorplatform-server/models"
	"creatorplatform-server/utils"
)

func TestCreateSocialProfile(t *testing.T) {
	setupTestDB(t)

	profile, err := createSocialProfile("New.User@Example.com", "Google")
	require.NoError(t, err)
	assert.NotZero(t, profile.ID)
	assert.Equal(t, "new.user@example.com", profile.Email)
	assert.True(t, profile.SocialLogin)
	assert.Equal(t, "Google", profile.SocialProvider)
}

func TestCreateSocialProfileSurfacesInsertFailure(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Profile{}))

	profile, err := createSocialProfile("broken@example.com", "Google")
	require.Error(t, err)
	assert.Zero(t, profile.ID, "no account, no identity to mint tokens for")
}

func buildResetPasswordApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("EMAIL_TOKEN_SECRET", "testsecret")

	app := iris.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})
	app.Post("/api/user/resetpassword", verifierMiddleware, ResetPassword)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signResetToken(t *testing.T, id uint, email string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")), 10*time.Minute)
	token, err := signer.Sign(utils.ForgotPasswordToken{ID: id, Email: email})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func postResetPassword(app *iris.Application, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/user/resetpassword",
		strings.NewReader(`{"password":"a-new-password"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestResetPasswordUpdatesHash(t *testing.T) {
	db := setupTestDB(t)
	app := buildResetPasswordApp(t)

	account := models.Profile{Email: "reset@example.com", Username: "resetme", Password: "old-hash"}
	require.NoError(t, db.Create(&account).Error)

	resp := postResetPassword(app, signResetToken(t, account.ID, account.Email))
	require.Equal(t, http.StatusOK, resp.Code)

	var updated models.Profile
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("a-new-password")))
}

func TestResetPasswordSurfacesStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	app := buildResetPasswordApp(t)

	require.NoError(t, db.Migrator().DropTable(&models.Profile{}))

	resp := postResetPassword(app, signResetToken(t, 1, "gone@example.com"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestResetPasswordUnknownAccount(t *testing.T) {
	setupTestDB(t)
	app := buildResetPasswordApp(t)

	resp := postResetPassword(app, signResetToken(t, 9999, "ghost@example.com"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
