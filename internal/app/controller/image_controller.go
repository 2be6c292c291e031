package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

type ImageController struct {
	imageService service.ImageService
	maxMemory    int64
}

func NewImageController(imageService service.ImageService, maxMemory int64) *ImageController {
	return &ImageController{
		imageService: imageService,
		maxMemory:    maxMemory,
	}
}

// UploadImage stores one photo for a property
// PUT /properties/:id/photo
func (ctrl *ImageController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if !isMultipart(c) {
		respondError(c, service.ErrNoFile)
		return
	}
	form, err := parseMultipart(c, ctrl.maxMemory)
	defer releaseForm(c, form)
	if err != nil {
		respondError(c, err)
		return
	}

	parts := form.File["file"]
	if len(parts) == 0 {
		log.Warn("Upload without file part", map[string]interface{}{
			"property_id": id,
		})
		respondError(c, service.ErrNoFile)
		return
	}

	opts := service.UploadOptions{}
	fields := formFields{form: form}
	if raw, ok := fields.value("isPrimary"); ok && strings.TrimSpace(raw) != "" {
		opts.IsPrimary, err = strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			respondError(c, &service.ValidationError{Fields: map[string]string{"isPrimary": "must be a boolean"}})
			return
		}
	}

	image, err := ctrl.imageService.Upload(c.Request.Context(), id, uploadFileFrom(parts[0]), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    image,
	})
}

// DeleteImage removes one photo from the bucket and the property
// DELETE /properties/:id/images/:imageId
func (ctrl *ImageController) DeleteImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	imageID, err := parseIDParam(c, "imageId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctrl.imageService.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// SetPrimary marks an image as the cover; ?replace=true demotes the current one
// PUT /properties/:id/images/:imageId/primary
func (ctrl *ImageController) SetPrimary(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	imageID, err := parseIDParam(c, "imageId")
	if err != nil {
		respondError(c, err)
		return
	}

	replace, _ := strconv.ParseBool(c.DefaultQuery("replace", "false"))

	image, err := ctrl.imageService.SetPrimary(c.Request.Context(), id, imageID, replace)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    image,
	})
}
