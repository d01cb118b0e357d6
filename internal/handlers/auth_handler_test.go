package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
	"github.com/saeid-a/PowerScaleBack/pkg/utils"
)

type stubAccountService struct {
	session   *services.Session
	err       error
	lastInput services.RegisterInput
	lastEmail string
	signedOut *utils.Claims
	user      *models.User
	profile   *models.UserProfile
	claims    *utils.Claims
}

func (s *stubAccountService) Register(_ context.Context, input services.RegisterInput) (*services.Session, error) {
	s.lastInput = input
	return s.session, s.err
}

func (s *stubAccountService) SignIn(_ context.Context, email, _ string) (*services.Session, error) {
	s.lastEmail = email
	return s.session, s.err
}

func (s *stubAccountService) SignOut(_ context.Context, claims *utils.Claims) error {
	s.signedOut = claims
	return s.err
}

func (s *stubAccountService) Authenticate(_ context.Context, _ string) (*utils.Claims, error) {
	return s.claims, s.err
}

func (s *stubAccountService) CurrentUser(_ context.Context, _ int64) (*models.User, *models.UserProfile, error) {
	return s.user, s.profile, s.err
}

func TestRegisterReturnsCreatedSession(t *testing.T) {
	service := &stubAccountService{session: &services.Session{
		Token: "signed-token",
		User:  &models.User{ID: 3, Email: "new@example.com"},
	}}
	handler := NewAuthHandler(service, nil)
	app := fiber.New()
	app.Post("/api/auth/register", handler.Register)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":            "new@example.com",
		"phone_number":     "9876543210",
		"password":         "password123",
		"confirm_password": "password123",
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["token"] != "signed-token" {
		t.Fatalf("unexpected body %+v", body)
	}
	if service.lastInput.PhoneNumber != "9876543210" || service.lastInput.ConfirmPassword != "password123" {
		t.Fatalf("unexpected input %+v", service.lastInput)
	}
}

func TestRegisterMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"duplicate", services.ErrEmailTaken, http.StatusConflict, ""},
		{"validation", models.NewValidationError("phone_number", "Phone number must be 10 digits starting with 6-9"), http.StatusBadRequest, "phone_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&stubAccountService{err: tt.err}, nil)
			app := fiber.New()
			app.Post("/api/auth/register", handler.Register)

			resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@example.com"})
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.field != "" && body["field"] != tt.field {
				t.Fatalf("expected field %s, got %+v", tt.field, body)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := &stubAccountService{err: services.ErrInvalidCredentials}
	handler := NewAuthHandler(service, nil)
	app := fiber.New()
	app.Post("/api/auth/login", handler.Login)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@example.com", "password": "nope",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body["error"] != "Invalid email or password" {
		t.Fatalf("unexpected body %+v", body)
	}
	if service.lastEmail != "a@example.com" {
		t.Fatalf("unexpected email %s", service.lastEmail)
	}
}

func TestLogoutRevokesClaims(t *testing.T) {
	service := &stubAccountService{}
	handler := NewAuthHandler(service, nil)
	claims := &utils.Claims{UserID: "9"}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "9")
		c.Locals("claims", claims)
		return c.Next()
	})
	app.Post("/api/auth/logout", handler.Logout)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/logout", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if service.signedOut != claims {
		t.Fatal("expected claims to be passed to SignOut")
	}
}

func TestLogoutWithoutClaimsIsUnauthorized(t *testing.T) {
	handler := NewAuthHandler(&stubAccountService{}, nil)
	app := newAuthedApp("9")
	app.Post("/api/auth/logout", handler.Logout)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/logout", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMeReportsOnboarding(t *testing.T) {
	service := &stubAccountService{
		user:    &models.User{ID: 9, Email: "me@example.com"},
		profile: &models.UserProfile{UserID: 9, OnboardingComplete: true},
	}
	handler := NewAuthHandler(service, nil)
	app := newAuthedApp("9")
	app.Get("/api/auth/me", handler.Me)

	resp, body := doJSON(t, app, http.MethodGet, "/api/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["onboarding_complete"] != true {
		t.Fatalf("expected onboarding_complete, got %+v", body)
	}
}

func TestMeMissingUserIsNotFound(t *testing.T) {
	handler := NewAuthHandler(&stubAccountService{err: services.ErrNotFound}, nil)
	app := newAuthedApp("9")
	app.Get("/api/auth/me", handler.Me)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebSocketAuthRequiresUpgrade(t *testing.T) {
	handler := NewAuthHandler(&stubAccountService{err: pgx.ErrNoRows}, nil)
	app := fiber.New()
	app.Get("/api/v1/ws", handler.WebSocketAuth)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/ws?token=abc", nil)
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}
