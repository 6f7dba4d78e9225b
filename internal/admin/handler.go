package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"flipfit/internal/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, notifier Notifier) *Handler {
	return &Handler{service: NewService(NewRepository(db), notifier)}
}

// DeleteUser godoc
// @Summary      Delete user
// @Description  Removes a user with all dependent records; future bookings at
// @Description  deleted gyms are refunded to the affected customers.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  DeletionResult
// @Failure      400     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /admin/users/{userID} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result, err := h.service.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteGym godoc
// @Summary      Delete gym
// @Description  Removes a gym with its slots and bookings, refunding future
// @Description  bookings first.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int  true  "Gym ID"
// @Success      200    {object}  DeletionResult
// @Failure      400    {object}  gin.H
// @Failure      404    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /admin/gyms/{gymID} [delete]
func (h *Handler) DeleteGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	result, err := h.service.DeleteGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ApproveGym godoc
// @Summary      Approve gym
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        gymID  path      int  true  "Gym ID"
// @Success      200    {object}  gin.H
// @Failure      404    {object}  gin.H
// @Router       /admin/gyms/{gymID}/approve [post]
func (h *Handler) ApproveGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	if err := h.service.ApproveGym(c.Request.Context(), gymID); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gym approved"})
}

// ApproveOwner godoc
// @Summary      Approve gym owner
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        ownerID  path      int  true  "Owner user ID"
// @Success      200      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /admin/owners/{ownerID}/approve [post]
func (h *Handler) ApproveOwner(c *gin.Context) {
	ownerID, err := strconv.Atoi(c.Param("ownerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID"})
		return
	}

	if err := h.service.ApproveOwner(c.Request.Context(), ownerID); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner approved"})
}

// ListPendingGyms godoc
// @Summary      List gyms awaiting approval
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  gym.Gym
// @Router       /admin/gyms/pending [get]
func (h *Handler) ListPendingGyms(c *gin.Context) {
	gyms, err := h.service.ListPendingGyms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// ListPendingOwners godoc
// @Summary      List owners awaiting approval
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  user.User
// @Router       /admin/owners/pending [get]
func (h *Handler) ListPendingOwners(c *gin.Context) {
	owners, err := h.service.ListPendingOwners(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending owners"})
		return
	}

	c.JSON(http.StatusOK, owners)
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  user.User
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}
