package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
)

type UserHandler struct {
	users *services.UserService
	db    *database.DB
}

func NewUserHandler(db *database.DB) *UserHandler {
	return &UserHandler{
		users: services.NewUserService(db),
		db:    db,
	}
}

func SetupUserRoutes(router fiber.Router, db *database.DB) {
	h := NewUserHandler(db)

	router.Get("/me", h.GetMe)
}

// GetMe godoc
// @Summary Get current user info
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	phone, _ := c.Locals(middleware.LocalsPhone).(string)
	var phonePtr *string
	if phone != "" {
		phonePtr = &phone
	}

	user, err := h.users.GetOrCreateBySubject(middleware.Subject(c), phonePtr)
	if err != nil {
		return serviceError(c, err)
	}

	var memoryCount, unlockCount int64
	h.db.Model(&models.Memory{}).Where("user_id = ?", user.ID).Count(&memoryCount)
	h.db.Model(&models.UnlockRecord{}).Where("user_id = ?", user.ID).Count(&unlockCount)

	return c.JSON(fiber.Map{
		"id":               user.ID,
		"phone":            user.Phone,
		"coins":            user.Coins,
		"memory_count":     memoryCount,
		"unlocked_regions": unlockCount,
		"created_at":       user.CreatedAt,
	})
}
