package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
)

type MemoryHandler struct {
	memories *services.MemoryService
	users    *services.UserService
	watches  *services.WatchService
}

func NewMemoryHandler(db *database.DB, watches *services.WatchService) *MemoryHandler {
	return &MemoryHandler{
		memories: services.NewMemoryService(db),
		users:    services.NewUserService(db),
		watches:  watches,
	}
}

func SetupMemoryRoutes(router fiber.Router, db *database.DB, watches *services.WatchService) {
	h := NewMemoryHandler(db, watches)

	router.Post("/", h.Create)
	router.Get("/mine", h.ListMine)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

// Create godoc
// @Summary Create a memory
// @Description Stores a memory and attaches it to the region derived from its coordinate
// @Tags memories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateMemoryRequest true "Memory data"
// @Success 201 {object} models.Memory
// @Router /memories [post]
func (h *MemoryHandler) Create(c *fiber.Ctx) error {
	var req services.CreateMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	phone, _ := c.Locals(middleware.LocalsPhone).(string)
	var phonePtr *string
	if phone != "" {
		phonePtr = &phone
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), phonePtr)
	if err != nil {
		return serviceError(c, err)
	}

	memory, err := h.memories.Create(user.ID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	// Watch pushes run off the request path.
	snapshot := *memory
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.watches.NotifyNewMemory(ctx, &snapshot)
	}()

	return c.Status(fiber.StatusCreated).JSON(memory)
}

// ListMine godoc
// @Summary List the caller's memories
// @Tags memories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /memories/mine [get]
func (h *MemoryHandler) ListMine(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), nil)
	if err != nil {
		return serviceError(c, err)
	}

	memories, total, err := h.memories.ListMine(user.ID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": memories,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update godoc
// @Summary Edit a memory
// @Description Coordinate edits re-derive the owning region with consistent counts
// @Tags memories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Memory ID"
// @Param request body services.UpdateMemoryRequest true "Fields to update"
// @Success 200 {object} models.Memory
// @Router /memories/{id} [put]
func (h *MemoryHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid memory ID"})
	}

	var req services.UpdateMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.GetBySubject(middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	memory, err := h.memories.Update(user.ID, uint(id), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(memory)
}

// Delete godoc
// @Summary Delete a memory
// @Tags memories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Memory ID"
// @Success 204
// @Router /memories/{id} [delete]
func (h *MemoryHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid memory ID"})
	}

	user, err := h.users.GetBySubject(middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.memories.Delete(user.ID, uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
