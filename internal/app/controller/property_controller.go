package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

type PropertyController struct {
	propertyService service.PropertyService
	maxMemory       int64
}

func NewPropertyController(propertyService service.PropertyService, maxMemory int64) *PropertyController {
	return &PropertyController{
		propertyService: propertyService,
		maxMemory:       maxMemory,
	}
}

// ListProperties returns listings matching the query filters, newest first
// GET /properties
func (ctrl *PropertyController) ListProperties(c *gin.Context) {
	opts := service.PropertyListOptions{
		Status:       strings.TrimSpace(c.Query("status")),
		Location:     strings.TrimSpace(c.Query("location")),
		Type:         strings.TrimSpace(c.Query("type")),
		PropertyType: strings.TrimSpace(c.Query("propertyType")),
		Availability: strings.TrimSpace(c.Query("availability")),
		Search:       strings.TrimSpace(c.Query("search")),
		MinPrice:     ctrl.priceBound(c, "minPrice"),
		MaxPrice:     ctrl.priceBound(c, "maxPrice"),
	}

	properties, err := ctrl.propertyService.ListProperties(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(properties),
		"data":    properties,
	})
}

// priceBound parses an optional numeric query bound. Malformed values are ignored.
func (ctrl *PropertyController) priceBound(c *gin.Context, name string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := parseFloat(raw)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Ignoring malformed price bound", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		return nil
	}
	return &v
}

// GetProperty returns a property with its images
// GET /properties/:id
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := ctrl.propertyService.GetProperty(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    property,
	})
}

// CreateProperty creates a listing with optional images
// POST /properties
func (ctrl *PropertyController) CreateProperty(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, files, form, err := readPropertyRequest(c, ctrl.maxMemory)
	defer releaseForm(c, form)
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := ctrl.propertyService.CreateProperty(c.Request.Context(), input, files)
	if err != nil {
		log.Warn("Property creation failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, err)
		return
	}

	log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"pid":         property.PID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    property,
	})
}

// UpdateProperty replaces the given fields and appends any new images
// PUT /properties/:id
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	input, files, form, err := readPropertyRequest(c, ctrl.maxMemory)
	defer releaseForm(c, form)
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := ctrl.propertyService.UpdateProperty(c.Request.Context(), id, input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    property,
	})
}

// DeleteProperty removes a property and its images
// DELETE /properties/:id
func (ctrl *PropertyController) DeleteProperty(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.propertyService.DeleteProperty(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// GetStats returns dashboard counters
// GET /properties/stats
func (ctrl *PropertyController) GetStats(c *gin.Context) {
	stats, err := ctrl.propertyService.GetStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
