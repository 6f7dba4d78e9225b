package gym

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"flipfit/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// CreateGym godoc
// @Summary      Register gym centre
// @Description  Creates an unapproved gym centre owned by the current user.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateGymRequest  true  "Gym payload"
// @Success      201      {object}  Gym
// @Failure      400      {object}  gin.H
// @Router       /owner/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gym, err := h.repo.CreateGym(c.Request.Context(), ownerID, req.Name, req.City, req.CostCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, gym)
}

// ListGyms godoc
// @Summary      List approved gyms
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Gym
// @Router       /gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.repo.ListGyms(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// ListMyGyms godoc
// @Summary      List gyms of the current owner
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Gym
// @Router       /owner/gyms [get]
func (h *Handler) ListMyGyms(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gyms, err := h.repo.ListGymsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// CreateSlot godoc
// @Summary      Add slot to gym
// @Description  Adds a daily time window to a gym owned by the current user.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        gymID    path      int               true  "Gym ID"
// @Param        request  body      CreateSlotRequest true  "Slot payload"
// @Success      201      {object}  Slot
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /owner/gyms/{gymID}/slots [post]
func (h *Handler) CreateSlot(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, v := range []string{req.StartTime, req.EndTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Times must be in HH:MM format"})
			return
		}
	}

	gym, err := h.repo.GetGymByID(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}
	if gym.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Gym belongs to another owner"})
		return
	}

	slot, err := h.repo.CreateSlot(c.Request.Context(), gymID, req.StartTime, req.EndTime, req.Capacity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListSlots godoc
// @Summary      List gym slots with availability
// @Description  Availability is computed for the date query parameter (today by default).
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int     true   "Gym ID"
// @Param        date   query     string  false  "Date (YYYY-MM-DD)"
// @Success      200    {array}   SlotWithAvailability
// @Failure      400    {object}  gin.H
// @Router       /gyms/{gymID}/slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	slots, err := h.repo.ListSlotsWithAvailability(c.Request.Context(), gymID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}
