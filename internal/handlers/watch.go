package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
)

type WatchHandler struct {
	watches *services.WatchService
	users   *services.UserService
}

func NewWatchHandler(db *database.DB, watches *services.WatchService) *WatchHandler {
	return &WatchHandler{
		watches: watches,
		users:   services.NewUserService(db),
	}
}

func SetupWatchRoutes(router, devices fiber.Router, db *database.DB, watches *services.WatchService) {
	h := NewWatchHandler(db, watches)

	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Delete("/:id", h.Delete)

	devices.Post("/", h.RegisterDevice)
	devices.Delete("/", h.UnregisterDevice)
}

// Create godoc
// @Summary Watch a region for new memories
// @Tags watches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateWatchRequest true "Region to watch"
// @Success 201 {object} models.RegionWatch
// @Router /watches [post]
func (h *WatchHandler) Create(c *fiber.Ctx) error {
	var req services.CreateWatchRequest
	if err := c.BodyParser(&req); err != nil || req.RegionHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "regionHash is required"})
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	watch, err := h.watches.CreateWatch(user.ID, req.RegionHash)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(watch)
}

// List godoc
// @Summary List the caller's region watches
// @Tags watches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RegionWatch
// @Router /watches [get]
func (h *WatchHandler) List(c *fiber.Ctx) error {
	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	watches, err := h.watches.ListWatches(user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(watches)
}

// Delete godoc
// @Summary Stop watching a region
// @Tags watches
// @Security BearerAuth
// @Param id path int true "Watch ID"
// @Success 204
// @Router /watches/{id} [delete]
func (h *WatchHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid watch ID"})
	}

	user, err := h.users.GetBySubject(middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.watches.DeleteWatch(user.ID, uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterDevice godoc
// @Summary Register an FCM device token
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.FCMRegisterRequest true "Device token"
// @Success 200 {object} models.FCMDevice
// @Router /devices [post]
func (h *WatchHandler) RegisterDevice(c *fiber.Ctx) error {
	var req services.FCMRegisterRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	device, err := h.watches.RegisterDevice(user.ID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(device)
}

// UnregisterDevice godoc
// @Summary Remove an FCM device token
// @Tags devices
// @Accept json
// @Security BearerAuth
// @Param request body services.FCMUnregisterRequest true "Device token"
// @Success 204
// @Router /devices [delete]
func (h *WatchHandler) UnregisterDevice(c *fiber.Ctx) error {
	var req services.FCMUnregisterRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	user, err := h.users.GetBySubject(middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.watches.UnregisterDevice(user.ID, req.Token); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
