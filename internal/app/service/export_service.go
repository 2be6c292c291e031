package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Properties"

var exportHeader = []interface{}{
	"ID", "PID", "Title", "Location", "Type", "Availability", "Property Type",
	"Furnishing", "Amenities", "Price", "Rent Period", "Status", "Images", "Primary Image", "Created At",
}

// listCell writes a list as a JSON array so elements keep their commas.
func listCell(values []string) string {
	if len(values) == 0 {
		return ""
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return strings.Join(values, ", ")
	}
	return string(raw)
}

// parseListCell reads a JSON array cell, falling back to comma-separated text
// for hand-edited sheets.
func parseListCell(v string) []string {
	var values []string
	if strings.HasPrefix(v, "[") {
		if err := json.Unmarshal([]byte(v), &values); err != nil {
			values = nil
		}
	}
	if values == nil {
		values = strings.Split(v, ",")
	}

	out := make([]string, 0, len(values))
	for _, item := range values {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type ExportService interface {
	// ExportProperties writes every listing, newest first, as an XLSX workbook.
	ExportProperties(w io.Writer) (int, error)
}

type exportService struct {
	propertyRepo repository.PropertyRepository
}

func NewExportService(propertyRepo repository.PropertyRepository) ExportService {
	return &exportService{propertyRepo: propertyRepo}
}

func (s *exportService) ExportProperties(w io.Writer) (int, error) {
	properties, err := s.propertyRepo.FindWithFilter(repository.PropertyFilter{})
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return 0, err
	}

	for i, p := range properties {
		primaryURL := ""
		if primary := p.PrimaryImage(); primary != nil {
			primaryURL = primary.URL
		}

		row := []interface{}{
			p.ID, p.PID, p.Title, p.Location, string(p.Type), p.Availability, p.PropertyType,
			listCell(p.Furnishing), listCell(p.Amenities), p.Price,
			string(p.RentPeriod), string(p.Status), len(p.Images), primaryURL,
			p.CreatedAt.Format("2006-01-02 15:04"),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "O", 18); err != nil {
		return 0, err
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Properties exported", map[string]interface{}{
		"count": len(properties),
	})
	return len(properties), nil
}
