package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.SecurityConfig
		key        string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "disabled",
			cfg:        config.SecurityConfig{RequireAPIKey: false},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_MISSING_KEY",
		},
		{
			name:       "wrong key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}},
			key:        "guess",
			wantStatus: http.StatusForbidden,
			wantCode:   "AUTH_INVALID_KEY",
		},
		{
			name:       "valid second key",
			cfg:        config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret", "other"}},
			key:        "other",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "required without keys",
			cfg:        config.SecurityConfig{RequireAPIKey: true},
			key:        "anything",
			wantStatus: http.StatusForbidden,
			wantCode:   "AUTH_INVALID_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/forecast", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(&tt.cfg)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body authError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestIsValidAPIKey(t *testing.T) {
	assert.True(t, isValidAPIKey("a", []string{"a"}))
	assert.False(t, isValidAPIKey("a", nil))
	assert.False(t, isValidAPIKey("ab", []string{"a", "b"}))
}
