package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

// FilterController serves one taxonomy kind. The router mounts one per kind.
type FilterController struct {
	filterService service.FilterService
}

func NewFilterController(filterService service.FilterService) *FilterController {
	return &FilterController{
		filterService: filterService,
	}
}

type FilterRequest struct {
	Name string `json:"name"`
}

func (ctrl *FilterController) Kind() model.FilterKind {
	return ctrl.filterService.Kind()
}

// List GET /filters/:kind
func (ctrl *FilterController) List(c *gin.Context) {
	options, err := ctrl.filterService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(options),
		"data":    options,
	})
}

// Get GET /filters/:kind/:id
func (ctrl *FilterController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	option, err := ctrl.filterService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    option,
	})
}

// Create POST /filters/:kind
func (ctrl *FilterController) Create(c *gin.Context) {
	req, ok := ctrl.bind(c)
	if !ok {
		return
	}

	option, err := ctrl.filterService.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Filter option created", map[string]interface{}{
		"kind": ctrl.Kind(),
		"id":   option.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    option,
	})
}

// Update PUT /filters/:kind/:id
func (ctrl *FilterController) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	req, ok := ctrl.bind(c)
	if !ok {
		return
	}

	option, err := ctrl.filterService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    option,
	})
}

// Delete DELETE /filters/:kind/:id
func (ctrl *FilterController) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.filterService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

func (ctrl *FilterController) bind(c *gin.Context) (FilterRequest, bool) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid filter request", map[string]interface{}{
			"kind":  ctrl.Kind(),
			"error": err.Error(),
		})
		apperrors.Respond(c, apperrors.BadRequest(apperrors.ValidationInvalidInput, "Invalid request body"))
		return req, false
	}
	return req, true
}
