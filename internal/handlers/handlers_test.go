package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/gharnest/gharnest-backend/internal/models"
	"github.com/gharnest/gharnest-backend/internal/routes"
	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
	"github.com/gharnest/gharnest-backend/internal/utils"
)

// recordingEmailSender keeps the last delivery so tests can read the
// code out of the message body.
type recordingEmailSender struct {
	lastTo   string
	lastBody string
}

func (r *recordingEmailSender) SendEmail(toName, toEmail, subject, htmlContent string) error {
	r.lastTo = toEmail
	r.lastBody = htmlContent
	return nil
}

// newTestApp builds the full route surface over a memory store. SMS and
// uploads stay nil: simulated phone numbers never touch the provider.
func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	app, store, _ := newTestAppWithEmail(t)
	return app, store
}

func newTestAppWithEmail(t *testing.T) (*fiber.App, *storage.MemoryStore, *recordingEmailSender) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	store := storage.NewMemoryStore()
	email := &recordingEmailSender{}
	verification := services.NewVerificationService(store, nil, email, services.NewMemoryOTPCache(services.OTPTTL))

	app := fiber.New()
	routes.SetupRoutes(app, store, verification, nil, nil)
	return app, store, email
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.UserID, user.Email, user.Role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// seedVerifiedSeller creates a seller who may list properties.
func seedVerifiedSeller(t *testing.T, store *storage.MemoryStore, phone string) *models.User {
	t.Helper()
	now := time.Now()
	user, err := store.CreateUser(&models.User{
		Name:                "Test Seller",
		Phone:               phone,
		Email:               "seller@example.com",
		Role:                models.RoleSeller,
		Purpose:             models.PurposeSell,
		IsPhoneVerified:     true,
		IsEmailVerified:     true,
		IsVerified:          true,
		VerificationPending: true,
		TermsAcceptedAt:     &now,
	})
	require.NoError(t, err)
	return user
}
