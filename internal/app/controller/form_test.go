package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "JSON array string", value: `["Bed", "Sofa"]`, want: []string{"Bed", "Sofa"}},
		{name: "JSON array keeps commas", value: `["Sofa, 3-seater", "Bed"]`, want: []string{"Sofa, 3-seater", "Bed"}},
		{name: "Comma separated", value: "Lift, Parking,,", want: []string{"Lift", "Parking"}},
		{name: "Broken JSON falls back to CSV", value: `[Bed`, want: []string{"[Bed"}},
		{name: "Empty", value: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.value))
		})
	}
}

func TestFormFieldsValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string][]string
		want   []string
	}{
		{
			name:   "Repeated values keep commas",
			values: map[string][]string{"furnishing": {"Sofa, 3-seater", " Bed "}},
			want:   []string{"Sofa, 3-seater", "Bed"},
		},
		{
			name:   "Bracket form keeps commas",
			values: map[string][]string{"furnishing[]": {"Sofa, 3-seater"}},
			want:   []string{"Sofa, 3-seater"},
		},
		{
			name:   "Repeated values are not JSON decoded",
			values: map[string][]string{"furnishing": {`["a"]`, "b"}},
			want:   []string{`["a"]`, "b"},
		},
		{
			name:   "Single value is split",
			values: map[string][]string{"furnishing": {"Bed, Sofa"}},
			want:   []string{"Bed", "Sofa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := formFields{form: &multipart.Form{Value: tt.values}}.values("furnishing")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONFieldsValues_KeepsCommas(t *testing.T) {
	body := jsonFields{}
	require.NoError(t, json.Unmarshal([]byte(`{"furnishing":["Sofa, 3-seater","Bed"],"amenities":"Lift, Parking"}`), &body))

	in, err := propertyInputFrom(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa, 3-seater", "Bed"}, in.Furnishing)
	assert.Equal(t, []string{"Lift", "Parking"}, in.Amenities)
}

func TestParseFloat(t *testing.T) {
	v, err := parseFloat(" 15000.5 ")
	require.NoError(t, err)
	assert.Equal(t, 15000.5, v)

	for _, raw := range []string{"abc", "NaN", "Inf", ""} {
		_, err := parseFloat(raw)
		assert.Error(t, err, raw)
	}
}

func TestPropertyInputFrom_JSON(t *testing.T) {
	body := jsonFields{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"pid": "C20AV988",
		"title": "2BHK Flat",
		"price": 15000,
		"furnishing": ["Bed"],
		"amenities": "[\"Lift\",\"Parking\"]",
		"status": null
	}`), &body))

	in, err := propertyInputFrom(body)
	require.NoError(t, err)
	require.NotNil(t, in.PID)
	assert.Equal(t, "C20AV988", *in.PID)
	require.NotNil(t, in.Price)
	assert.Equal(t, 15000.0, *in.Price)
	assert.Equal(t, []string{"Bed"}, in.Furnishing)
	assert.Equal(t, []string{"Lift", "Parking"}, in.Amenities)
	assert.Nil(t, in.Status)
	assert.Nil(t, in.Location)
}

func TestPropertyInputFrom_InvalidPrice(t *testing.T) {
	_, err := propertyInputFrom(jsonFields{"price": json.RawMessage(`"lots"`)})

	var vErr *service.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "price")
}

func TestReadPropertyRequest_Multipart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("pid", "M-1"))
	require.NoError(t, mw.WriteField("furnishing[]", "Bed"))
	require.NoError(t, mw.WriteField("furnishing[]", "Wardrobe"))
	part, err := mw.CreateFormFile("images[]", "a.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/properties", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	in, files, form, err := readPropertyRequest(c, 1<<20)
	require.NoError(t, err)
	defer releaseForm(c, form)

	assert.Equal(t, "M-1", *in.PID)
	assert.Equal(t, []string{"Bed", "Wardrobe"}, in.Furnishing)
	require.Len(t, files, 1)
	assert.Equal(t, "a.png", files[0].Filename)
	assert.EqualValues(t, 3, files[0].Size)
}

func TestReadPropertyRequest_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/properties", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	_, _, _, err := readPropertyRequest(c, 1<<20)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestReadPropertyRequest_BodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		body func() (string, string)
	}{
		{
			name: "JSON",
			body: func() (string, string) {
				return "application/json", `{"title":"` + strings.Repeat("x", 4<<10) + `"}`
			},
		},
		{
			name: "Multipart",
			body: func() (string, string) {
				var buf bytes.Buffer
				mw := multipart.NewWriter(&buf)
				part, _ := mw.CreateFormFile("images", "big.png")
				_, _ = part.Write(make([]byte, 4<<10))
				_ = mw.Close()
				return mw.FormDataContentType(), buf.String()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, body := tt.body()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/properties", strings.NewReader(body))
			c.Request.Header.Set("Content-Type", contentType)
			c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 1<<10)

			_, _, form, err := readPropertyRequest(c, 1<<20)
			releaseForm(c, form)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, apperrors.UploadFileTooLarge, appErr.Code)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, ok := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		t.Run(raw, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "id", Value: raw}}

			id, err := parseIDParam(c, "id")
			if ok {
				require.NoError(t, err)
				assert.EqualValues(t, 12, id)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{service.ErrPropertyNotFound, http.StatusNotFound, apperrors.PropertyNotFound},
		{service.ErrPropertyPIDExists, http.StatusConflict, apperrors.PropertyPIDExists},
		{service.ErrPrimaryImageExists, http.StatusConflict, apperrors.ImagePrimaryConflict},
		{service.ErrInvalidFileType, http.StatusBadRequest, apperrors.UploadInvalidFileType},
		{fmt.Errorf("%w: timeout", service.ErrUploadFailed), http.StatusInternalServerError, apperrors.UploadFailed},
		{fmt.Errorf("%w: refused", service.ErrStorageUnavailable), http.StatusInternalServerError, apperrors.StorageUnavailable},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials},
		{service.ErrFilterNameExists, http.StatusConflict, apperrors.FilterNameExists},
		{&service.ValidationError{Fields: map[string]string{"pid": "is required"}}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var appErr *apperrors.AppError
			require.True(t, errors.As(toAppError(tt.err), &appErr))
			assert.Equal(t, tt.wantStatus, appErr.Status)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}
