package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/plans"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
)

type CoinHandler struct {
	payments *services.PaymentService
	users    *services.UserService
}

func NewCoinHandler(db *database.DB, payments *services.PaymentService) *CoinHandler {
	return &CoinHandler{
		payments: payments,
		users:    services.NewUserService(db),
	}
}

// SetupCoinRoutes mounts the coin economy endpoints. verify allows anonymous
// calls (the gateway redirects the buyer back before the app knows who they
// are), so it is mounted with optional auth by the caller.
func SetupCoinRoutes(authed, open fiber.Router, db *database.DB, payments *services.PaymentService) {
	h := NewCoinHandler(db, payments)

	open.Get("/plans", h.Plans)
	open.Post("/verify/:transaction_id", h.Verify)

	authed.Post("/checkout", h.Checkout)
	authed.Get("/balance", h.Balance)
}

// Plans godoc
// @Summary List purchasable coin bundles
// @Tags coins
// @Produce json
// @Success 200 {array} plans.Plan
// @Router /coins/plans [get]
func (h *CoinHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(plans.All())
}

type CheckoutRequest struct {
	PlanID string `json:"planId"`
}

// Checkout godoc
// @Summary Start a coin purchase
// @Tags coins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "Plan to buy"
// @Success 200 {object} services.CheckoutResult
// @Router /coins/checkout [post]
func (h *CoinHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "planId is required"})
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	result, err := h.payments.Checkout(c.UserContext(), user.ID, req.PlanID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// Verify godoc
// @Summary Verify a payment and credit the buyer exactly once
// @Tags coins
// @Produce json
// @Param transaction_id path string true "Provider transaction id"
// @Success 200 {object} services.VerificationResult
// @Failure 502 {object} ErrorResponse
// @Router /coins/verify/{transaction_id} [post]
func (h *CoinHandler) Verify(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "transaction_id is required"})
	}

	result, err := h.payments.VerifyAndCredit(c.UserContext(), transactionID, middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// Balance godoc
// @Summary Get the caller's coin balance
// @Tags coins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /coins/balance [get]
func (h *CoinHandler) Balance(c *fiber.Ctx) error {
	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"coins": user.Coins})
}
