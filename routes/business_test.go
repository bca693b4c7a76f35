package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creatorplatform-server/models"
	"creatorplatform-server/utils"
)

func TestUniqueBusinessSlugNoCollision(t *testing.T) {
	setupTestDB(t)

	slug, err := uniqueBusinessSlug("Surf & Stay Lisbon", 1)
	require.NoError(t, err)
	assert.Equal(t, "surf-stay-lisbon", slug)
}

func TestUniqueBusinessSlugProbesSuffixes(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.BusinessProfile{
		BusinessID: 10, BusinessName: "Surf Camp", Slug: "surf-camp",
	}).Error)
	require.NoError(t, db.Create(&models.BusinessProfile{
		BusinessID: 11, BusinessName: "Surf Camp", Slug: "surf-camp-1",
	}).Error)

	slug, err := uniqueBusinessSlug("Surf Camp", 12)
	require.NoError(t, err)
	assert.Equal(t, "surf-camp-2", slug)
}

func TestUniqueBusinessSlugExcludesSelf(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.BusinessProfile{
		BusinessID: 10, BusinessName: "Surf Camp", Slug: "surf-camp",
	}).Error)

	// The owner re-saving the same name gets the base slug back, not a
	// suffixed variant.
	slug, err := uniqueBusinessSlug("Surf Camp", 10)
	require.NoError(t, err)
	assert.Equal(t, "surf-camp", slug)
}

func TestUniqueBusinessSlugFallbackForEmptyName(t *testing.T) {
	setupTestDB(t)

	slug, err := uniqueBusinessSlug("!!!", 1)
	require.NoError(t, err)
	assert.Equal(t, "business", slug)
}

func buildBusinessApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	app.Validator = validator.New()
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })
	app.Post("/api/business/profile", verifierMiddleware, utils.BusinessOnlyMiddleware, UpsertBusinessProfile)

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func postBusinessProfile(t *testing.T, app *iris.Application, body string) *httptest.ResponseRecorder {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: 1, UserType: "business"})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/business/profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+string(token))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestUpsertBusinessProfileKeepsSlugWhenNameUnchanged(t *testing.T) {
	db := setupTestDB(t)
	app := buildBusinessApp(t)

	resp := postBusinessProfile(t, app,
		`{"businessName":"Surf Camp","title":"Surf lessons","description":"Learn to surf."}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var first models.BusinessProfile
	require.NoError(t, db.Where("business_id = ?", 1).First(&first).Error)
	require.Equal(t, "surf-camp", first.Slug)

	// Editing other fields while keeping the name must not touch the slug,
	// so published listing links stay valid.
	resp = postBusinessProfile(t, app,
		`{"businessName":"Surf Camp","title":"Surf and yoga lessons","description":"Learn to surf."}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var second models.BusinessProfile
	require.NoError(t, db.Where("business_id = ?", 1).First(&second).Error)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, "Surf and yoga lessons", second.Title)

	// Renaming regenerates the slug from the new name.
	resp = postBusinessProfile(t, app,
		`{"businessName":"Wave House","title":"Surf lessons","description":"Learn to surf."}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var renamed models.BusinessProfile
	require.NoError(t, db.Where("business_id = ?", 1).First(&renamed).Error)
	assert.Equal(t, "wave-house", renamed.Slug)
}
