package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-service/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.Error{Kind: service.KindValidation, Message: "bad"}, http.StatusBadRequest},
		{"ineligible", &service.Error{Kind: service.KindIneligible, Code: service.CodeSlotFull}, http.StatusBadRequest},
		{"not found", &service.Error{Kind: service.KindValidation, Code: service.CodeNotFound}, http.StatusNotFound},
		{"persistence", &service.Error{Kind: service.KindPersistence}, http.StatusInternalServerError},
		{"timeout", &service.Error{Kind: service.KindTimeout}, http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, se := statusFor(tt.err)
			assert.Equal(t, tt.want, code)
			assert.NotNil(t, se)
		})
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &service.Error{Kind: service.KindIneligible, Code: service.CodeInvalidOrExpiredCoupon, Message: "Invalid or expired coupon code"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Invalid or expired coupon code"}`, rec.Body.String())
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: relation \"orders\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rec.Body.String())
}

func TestWriteBareError_Timeout(t *testing.T) {
	rec := httptest.NewRecorder()
	writeBareError(rec, &service.Error{Kind: service.KindTimeout, Message: "The request timed out, please try again"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"The request timed out, please try again"}`, rec.Body.String())
}

func TestWriteSuccess_EmptyListIsKept(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, []string{}, "")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])
	assert.NotContains(t, body, "message")
}

func TestDecodeBody(t *testing.T) {
	var v struct {
		Code string `json:"code"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"WELCOME10"}`))
	require.NoError(t, decodeBody(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "WELCOME10", v.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := decodeBody(httptest.NewRecorder(), req, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request body is required")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))
	err = decodeBody(httptest.NewRecorder(), req, &v)
	assert.ErrorIs(t, err, &service.Error{Kind: service.KindValidation})
}

func TestCacheFor(t *testing.T) {
	rec := httptest.NewRecorder()
	cacheFor(rec, 120, 300)
	assert.Equal(t, "public, s-maxage=120, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))
}
