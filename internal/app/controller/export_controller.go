package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	exportService service.ExportService
	now           func() time.Time
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
		now:           time.Now,
	}
}

// ExportProperties downloads every listing as a spreadsheet
// GET /properties/export
func (ctrl *ExportController) ExportProperties(c *gin.Context) {
	var buf bytes.Buffer
	rows, err := ctrl.exportService.ExportProperties(&buf)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Property export failed", err)
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("properties-%s.xlsx", ctrl.now().Format("20060102"))
	middleware.GetLoggerFromContext(c).Info("Properties exported", map[string]interface{}{
		"rows": rows,
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
