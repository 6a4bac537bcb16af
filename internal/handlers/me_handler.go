package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_user_id_type"})
		return
	}

	var user models.User
	if err := h.db.Preload("Provider").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	}

	if user.Provider != nil {
		resp["provider"] = gin.H{
			"id":                  user.Provider.ID,
			"name":                user.Provider.Name,
			"slug":                user.Provider.Slug,
			"phone":               user.Provider.Phone,
			"address":             user.Provider.Address,
			"timezone":            user.Provider.Timezone,
			"min_advance_minutes": user.Provider.MinAdvanceMinutes,
		}
	}

	c.JSON(http.StatusOK, resp)
}
