package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ImportResult counts the rows of one workbook import.
type ImportResult struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Errors  map[int]string `json:"errors,omitempty"` // row number -> reason
}

type ImportService interface {
	// ImportProperties creates one listing per data row of a workbook in the export layout.
	// Rows that fail validation or reuse an existing PID are skipped.
	ImportProperties(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type importService struct {
	properties PropertyService
}

func NewImportService(properties PropertyService) ImportService {
	return &importService{properties: properties}
}

func (s *importService) ImportProperties(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := exportSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data found in workbook")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["pid"]; !ok {
		return nil, errors.New("workbook has no PID column")
	}

	result := &ImportResult{Errors: map[int]string{}}
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(header string) *string {
			idx, ok := columns[header]
			if !ok || idx >= len(row) {
				return nil
			}
			v := strings.TrimSpace(row[idx])
			return &v
		}
		list := func(header string) []string {
			if v := cell(header); v != nil {
				return parseListCell(*v)
			}
			return nil
		}

		pid := cell("pid")
		if pid == nil || *pid == "" {
			result.Skipped++
			continue
		}

		input := PropertyInput{
			PID:          pid,
			Title:        cell("title"),
			Location:     cell("location"),
			Type:         cell("type"),
			Availability: cell("availability"),
			PropertyType: cell("property type"),
			RentPeriod:   cell("rent period"),
			Status:       cell("status"),
			Furnishing:   list("furnishing"),
			Amenities:    list("amenities"),
		}
		if raw := cell("price"); raw != nil && *raw != "" {
			price, err := strconv.ParseFloat(*raw, 64)
			if err != nil {
				result.Skipped++
				result.Errors[rowNum] = "price must be a number"
				continue
			}
			input.Price = &price
		}

		if _, err := s.properties.CreateProperty(ctx, input, nil); err != nil {
			result.Skipped++
			result.Errors[rowNum] = err.Error()
			continue
		}
		result.Created++
	}

	logger.Info("Properties imported", map[string]interface{}{
		"sheet":   sheet,
		"created": result.Created,
		"skipped": result.Skipped,
	})
	return result, nil
}
