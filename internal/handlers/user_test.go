package handlers

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kobo/internal/models"
	"kobo/internal/services/user"
)

type stubUserService struct {
	registerErr error
	loginErr    error
	gotInput    user.RegisterInput
}

func (s *stubUserService) Register(_ context.Context, input user.RegisterInput) (*models.User, *models.Wallet, error) {
	s.gotInput = input
	if s.registerErr != nil {
		return nil, nil, s.registerErr
	}
	u := &models.User{ID: 1, Email: input.Email, Phone: input.Phone}
	w := &models.Wallet{ID: 1, UserID: 1, AccountNumber: "WAL1234567890AB", Balance: decimal.Zero, Currency: "NGN", IsActive: true}
	return u, w, nil
}

func (s *stubUserService) Login(_ context.Context, email, password string) (*models.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return &models.User{ID: 1, Email: email}, "signed-token", nil
}

func newUserApp(svc user.Service) *fiber.App {
	app := fiber.New()
	h := NewUserHandler(svc)
	app.Post("/users/register", h.Register)
	app.Post("/users/login", h.Login)
	return app
}

const validRegisterBody = `{
	"email": "ada@example.com",
	"phone": "08012345678",
	"first_name": "Ada",
	"last_name": "Obi",
	"bvn": "12345678901",
	"password": "correct horse"
}`

func TestRegisterHandler(t *testing.T) {
	svc := &stubUserService{}
	app := newUserApp(svc)

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/register", validRegisterBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "User registered successfully", body["message"])
	data := body["data"].(map[string]interface{})
	wallet := data["wallet"].(map[string]interface{})
	assert.Equal(t, "WAL1234567890AB", wallet["account_number"])

	assert.Equal(t, "ada@example.com", svc.gotInput.Email)
	assert.Equal(t, "12345678901", svc.gotInput.BVN)
}

func TestRegisterHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad email", body: `{"email":"not-an-email","phone":"0801","first_name":"A","last_name":"B","bvn":"1","password":"longenough"}`},
		{name: "missing bvn", body: `{"email":"ada@example.com","phone":"0801","first_name":"A","last_name":"B","password":"longenough"}`},
		{name: "short password", body: `{"email":"ada@example.com","phone":"0801","first_name":"A","last_name":"B","bvn":"1","password":"short"}`},
		{name: "malformed json", body: `{"email":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newUserApp(&stubUserService{})
			resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/register", tt.body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterHandler_ServiceErrors(t *testing.T) {
	t.Run("blacklisted", func(t *testing.T) {
		app := newUserApp(&stubUserService{registerErr: user.ErrBlacklisted})
		resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/register", validRegisterBody))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate", func(t *testing.T) {
		app := newUserApp(&stubUserService{registerErr: user.ErrDuplicateUser})
		resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/register", validRegisterBody))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := newUserApp(&stubUserService{})
		resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"correct horse"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "signed-token", data["token"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		app := newUserApp(&stubUserService{loginErr: user.ErrInvalidCredentials})
		resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"wrong"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("blacklisted account", func(t *testing.T) {
		app := newUserApp(&stubUserService{loginErr: user.ErrBlacklisted})
		resp, err := app.Test(jsonRequest(fiber.MethodPost, "/users/login",
			`{"email":"ada@example.com","password":"correct horse"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
