package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

// fieldSource reads request fields from either a multipart form or a JSON object.
type fieldSource interface {
	value(name string) (string, bool)
	values(name string) ([]string, bool)
}

type formFields struct {
	form *multipart.Form
}

func (f formFields) value(name string) (string, bool) {
	v, ok := f.form.Value[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// values treats repeated fields and the name[] form as a list of elements.
// A single plain field holds a JSON array or comma-separated values.
func (f formFields) values(name string) ([]string, bool) {
	if v, ok := f.form.Value[name+"[]"]; ok {
		return cleanList(v), true
	}
	v, ok := f.form.Value[name]
	if !ok {
		return nil, false
	}
	if len(v) == 1 {
		return splitList(v[0]), true
	}
	return cleanList(v), true
}

type jsonFields map[string]json.RawMessage

func (j jsonFields) value(name string) (string, bool) {
	raw, ok := j[name]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	// numbers and booleans keep their literal form
	return strings.TrimSpace(string(raw)), true
}

func (j jsonFields) values(name string) ([]string, bool) {
	raw, ok := j[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanList(list), true
	}
	s, ok := j.value(name)
	if !ok {
		return nil, false
	}
	return splitList(s), true
}

// splitList decodes a single string holding a JSON array or comma-separated values.
func splitList(v string) []string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(v), &arr); err == nil {
			return cleanList(arr)
		}
	}
	return cleanList(strings.Split(v, ","))
}

// cleanList trims elements and drops empty ones.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseFloat rejects NaN and infinities.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func propertyInputFrom(src fieldSource) (service.PropertyInput, error) {
	var in service.PropertyInput

	str := func(name string) *string {
		if v, ok := src.value(name); ok {
			return &v
		}
		return nil
	}
	list := func(name string) []string {
		if v, ok := src.values(name); ok {
			return v
		}
		return nil
	}

	in.PID = str("pid")
	in.Title = str("title")
	in.Location = str("location")
	in.Type = str("type")
	in.Availability = str("availability")
	in.PropertyType = str("propertyType")
	in.RentPeriod = str("rentPeriod")
	in.Status = str("status")
	in.Furnishing = list("furnishing")
	in.Amenities = list("amenities")

	if raw, ok := src.value("price"); ok && strings.TrimSpace(raw) != "" {
		price, err := parseFloat(raw)
		if err != nil {
			return in, &service.ValidationError{Fields: map[string]string{"price": "must be a number"}}
		}
		in.Price = &price
	}
	return in, nil
}

func uploadFileFrom(fh *multipart.FileHeader) service.UploadFile {
	return service.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parseMultipart parses the request form. The caller must release it with releaseForm.
func parseMultipart(c *gin.Context, maxMemory int64) (*multipart.Form, error) {
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		if isBodyTooLarge(err) {
			return nil, apperrors.BadRequest(apperrors.UploadFileTooLarge, "File too large")
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, apperrors.BadRequest(apperrors.UploadNoFile, "No file uploaded")
		}
		return nil, apperrors.BadRequest(apperrors.ValidationInvalidInput, "Invalid multipart form")
	}
	return c.Request.MultipartForm, nil
}

// isBodyTooLarge reports whether err came from the middleware.LimitBody cap.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// releaseForm removes multipart temp files. Failures are logged only.
func releaseForm(c *gin.Context, form *multipart.Form) {
	if form == nil {
		return
	}
	if err := form.RemoveAll(); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to remove multipart temp files", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// readPropertyRequest decodes fields and image parts from a multipart or JSON body.
func readPropertyRequest(c *gin.Context, maxMemory int64) (service.PropertyInput, []service.UploadFile, *multipart.Form, error) {
	if isMultipart(c) {
		form, err := parseMultipart(c, maxMemory)
		if err != nil {
			return service.PropertyInput{}, nil, nil, err
		}

		in, err := propertyInputFrom(formFields{form: form})
		if err != nil {
			return in, nil, form, err
		}

		var files []service.UploadFile
		for _, field := range []string{"images", "images[]"} {
			for _, fh := range form.File[field] {
				files = append(files, uploadFileFrom(fh))
			}
		}
		return in, files, form, nil
	}

	body := jsonFields{}
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		if isBodyTooLarge(err) {
			return service.PropertyInput{}, nil, nil, apperrors.BadRequest(apperrors.UploadFileTooLarge, "Request body too large")
		}
		return service.PropertyInput{}, nil, nil, apperrors.BadRequest(apperrors.ValidationInvalidInput, "Invalid request body")
	}
	in, err := propertyInputFrom(body)
	return in, nil, nil, err
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.BadRequest(apperrors.ValidationInvalidID, "Invalid id")
	}
	return uint(id), nil
}
