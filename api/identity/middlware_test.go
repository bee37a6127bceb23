package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokenizer knows a fixed set of tokens.
type staticTokenizer struct {
	tokens map[string]map[string]interface{}
}

func (s *staticTokenizer) Generate(claims map[string]interface{}, _ time.Duration) (string, error) {
	token := "token-" + claims[roleClaim].(string)
	s.tokens[token] = claims
	return token, nil
}

func (s *staticTokenizer) Decode(token string) (map[string]interface{}, error) {
	claims, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func TestAuthoriz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := &staticTokenizer{tokens: map[string]map[string]interface{}{
		"viewer": {roleClaim: "viewer"},
	}}
	operator, err := OperatorToken(ts, time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/any", Authoriz(ts), func(c *gin.Context) {
		_, ok := c.Get(ContextUserClaims)
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})
	router.GET("/operator", Authoriz(ts, RoleOperator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/any", "", http.StatusUnauthorized},
		{"not bearer", "/any", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/any", "Bearer nope", http.StatusUnauthorized},
		{"any role", "/any", "Bearer viewer", http.StatusNoContent},
		{"wrong role", "/operator", "Bearer viewer", http.StatusForbidden},
		{"operator", "/operator", "Bearer " + operator, http.StatusNoContent},
		{"lowercase scheme", "/operator", "bearer " + operator, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
