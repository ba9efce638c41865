package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
)

type RegionHandler struct {
	regions *services.RegionService
	unlocks *services.UnlockService
	users   *services.UserService
}

func NewRegionHandler(db *database.DB) *RegionHandler {
	return &RegionHandler{
		regions: services.NewRegionService(db),
		unlocks: services.NewUnlockService(db),
		users:   services.NewUserService(db),
	}
}

// SetupRegionRoutes mounts the content gate on the optional-auth router and
// the unlock operation on the authenticated one.
func SetupRegionRoutes(open, authed fiber.Router, db *database.DB) {
	h := NewRegionHandler(db)

	open.Get("/:hash/posts", h.GetPosts)
	authed.Post("/unlock", h.Unlock)
}

// GetPosts godoc
// @Summary Get a region's posts through the content gate
// @Description Teaser view for locked viewers, full view up to the unlocked window otherwise
// @Tags regions
// @Accept json
// @Produce json
// @Param hash path string true "Region geohash"
// @Success 200 {object} services.RegionViewResponse
// @Router /regions/{hash}/posts [get]
func (h *RegionHandler) GetPosts(c *fiber.Ctx) error {
	hash := c.Params("hash")

	var viewerID *uint
	if subject := middleware.Subject(c); subject != "" {
		if user, err := h.users.GetBySubject(subject); err == nil {
			viewerID = &user.ID
		}
	}

	view, err := h.regions.View(hash, viewerID)
	if err != nil {
		return serviceError(c, err)
	}

	// canUnlock depends on authentication, not on whether the user row
	// exists yet; balance is checked at unlock time.
	view.CanUnlock = middleware.Subject(c) != ""

	return c.JSON(view)
}

type UnlockRequest struct {
	RegionHash string `json:"regionHash"`
}

// Unlock godoc
// @Summary Spend coins to reveal more of a region's posts
// @Tags regions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UnlockRequest true "Region to unlock"
// @Success 200 {object} services.UnlockResult
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /regions/unlock [post]
func (h *RegionHandler) Unlock(c *fiber.Ctx) error {
	var req UnlockRequest
	if err := c.BodyParser(&req); err != nil || req.RegionHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "regionHash is required"})
	}

	user, err := h.users.GetBySubject(middleware.Subject(c))
	if err != nil {
		return serviceError(c, err)
	}

	result, err := h.unlocks.Unlock(user.ID, req.RegionHash)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":            true,
		"unlockedCount": result.UnlockedCount,
		"coins":         result.Coins,
	})
}
