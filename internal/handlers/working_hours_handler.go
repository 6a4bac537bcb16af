package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harmoniawellness/wellness-scheduler/internal/middleware"
	"github.com/harmoniawellness/wellness-scheduler/internal/models"
	"github.com/harmoniawellness/wellness-scheduler/internal/timeutil"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	providerIDVal, _ := c.Get(middleware.ContextProviderID)
	providerID := providerIDVal.(uint)

	var hours []models.WorkingHours
	if err := h.db.
		Where("provider_id = ?", providerID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	providerIDVal, _ := c.Get(middleware.ContextProviderID)
	providerID := providerIDVal.(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, d := range req.Days {
		if !d.Active {
			continue
		}
		if !timeutil.IsValidClock(d.OpenTime) || !timeutil.IsValidClock(d.CloseTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_format"})
			return
		}
		if timeutil.TimeToMinutes(d.OpenTime) >= timeutil.TimeToMinutes(d.CloseTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open_after_close"})
			return
		}
	}

	if err := h.db.Where("provider_id = ?", providerID).Delete(&models.WorkingHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.WorkingHours
	for _, d := range req.Days {
		wh := models.WorkingHours{
			ProviderID: providerID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			OpenTime:   d.OpenTime,
			CloseTime:  d.CloseTime,
		}
		toCreate = append(toCreate, wh)
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
