package handlers

import (
	"context"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/middleware"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/services"
	sessionws "github.com/saeid-a/PowerScaleBack/internal/websocket"
	"github.com/saeid-a/PowerScaleBack/pkg/utils"
)

type accountService interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SignOut(ctx context.Context, claims *utils.Claims) error
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, *models.UserProfile, error)
}

type AuthHandler struct {
	service accountService
	hub     *sessionws.Hub
}

func NewAuthHandler(service accountService, hub *sessionws.Hub) *AuthHandler {
	return &AuthHandler{service: service, hub: hub}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func sessionResponse(session *services.Session) fiber.Map {
	return fiber.Map{
		"token": session.Token,
		"user": fiber.Map{
			"id":    session.User.ID,
			"email": session.User.Email,
		},
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(session))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.service.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*utils.Claims)
	if !ok {
		return unauthorized(c)
	}
	if err := h.service.SignOut(c.UserContext(), claims); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, profile, err := h.service.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	onboarded := profile != nil && profile.OnboardingComplete
	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
		"profile":             profile,
		"onboarding_complete": onboarded,
	})
}

// WebSocketAuth authenticates the upgrade request before the session stream is opened.
func (h *AuthHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	token := middleware.BearerOrQueryToken(c)
	if token == "" {
		return unauthorized(c)
	}
	claims, err := h.service.Authenticate(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	return c.Next()
}

func (h *AuthHandler) SessionEvents(conn *websocket.Conn) {
	userIDStr, _ := conn.Locals("user_id").(string)
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		_ = conn.Close()
		return
	}

	client := sessionws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}
