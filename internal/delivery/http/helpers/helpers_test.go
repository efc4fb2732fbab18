package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", DefaultPage, DefaultPageSize},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=-1", DefaultPage, DefaultPageSize},
		{"page=abc&page_size=1000", DefaultPage, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/queryConferences?"+tt.query, nil)
			got := ParsePagination(r)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
		})
	}
}

func TestParseOptionalPagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{}},
		{"city=London", domain.PaginationParams{}},
		{"page=2", domain.PaginationParams{Page: 2, PageSize: DefaultPageSize}},
		{"page_size=5", domain.PaginationParams{Page: DefaultPage, PageSize: 5}},
		{"page=3&page_size=500", domain.PaginationParams{Page: 3, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/queryConferences?"+tt.query, nil)
			got := ParseOptionalPagination(r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.PageSize > 0, got.IsSet())
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: bad", domain.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
		{fmt.Errorf("%w: not yours", domain.ErrForbidden), http.StatusForbidden, ErrCodeForbidden},
		{fmt.Errorf("%w: gone", domain.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("%w: sold out", domain.ErrConflict), http.StatusConflict, ErrCodeConflict},
		{errors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteServiceError(rr, httptest.NewRequest(http.MethodGet, "/", nil), logger, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.Nil(t, envelope.Data)
		})
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (n nameRequest) Validate() []string {
	if n.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		optional bool
		wantOK   bool
	}{
		{"valid", `{"name":"x"}`, false, true},
		{"unknown field", `{"name":"x","extra":1}`, false, false},
		{"fails validation", `{"name":""}`, false, false},
		{"empty body required", ``, false, false},
		{"empty body optional still validates", ``, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req nameRequest
			var ok bool
			if tt.optional {
				ok = DecodeOptionalAndValidate(rr, r, &req)
			} else {
				ok = DecodeAndValidate(rr, r, &req)
			}
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}
