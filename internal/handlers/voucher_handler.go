package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/services"
)

type voucherService interface {
	SubmitCode(ctx context.Context, userID int64, code string) (*services.RedeemResult, error)
}

type VoucherHandler struct {
	service voucherService
}

func NewVoucherHandler(service voucherService) *VoucherHandler {
	return &VoucherHandler{service: service}
}

func (h *VoucherHandler) Redeem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.service.SubmitCode(c.UserContext(), userID, req.Code)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}
