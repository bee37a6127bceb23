package agentconfigapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-nav/api"
	api_i "github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/beka-birhanu/vinom-nav/api/identity"
	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	configs map[uuid.UUID]*dmn.AgentConfig
	err     error
}

func (r *memoryRepo) Save(cfg *dmn.AgentConfig) error {
	if r.err != nil {
		return r.err
	}
	for _, c := range r.configs {
		if c.Name == cfg.Name && c.ID != cfg.ID {
			return dmn.ErrAgentNameConflict
		}
	}
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *memoryRepo) ByID(id uuid.UUID) (*dmn.AgentConfig, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return nil, dmn.ErrAgentConfigNotFound
	}
	return cfg, nil
}

func (r *memoryRepo) List(limit int64) ([]*dmn.AgentConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	configs := make([]*dmn.AgentConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		if int64(len(configs)) == limit {
			break
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (r *memoryRepo) Delete(id uuid.UUID) error {
	if _, ok := r.configs[id]; !ok {
		return dmn.ErrAgentConfigNotFound
	}
	delete(r.configs, id)
	return nil
}

type staticTokenizer struct{}

func (staticTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "", errors.New("not supported")
}

func (staticTokenizer) Decode(token string) (map[string]interface{}, error) {
	switch token {
	case "operator":
		return map[string]interface{}{"role": identity.RoleOperator}, nil
	case "viewer":
		return map[string]interface{}{"role": "viewer"}, nil
	}
	return nil, errors.New("invalid token")
}

func newHandler(t *testing.T) (*gin.Engine, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryRepo{configs: make(map[uuid.UUID]*dmn.AgentConfig)}
	ac, err := NewAgentConfigController(repo, nil)
	require.NoError(t, err)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{ac},
		AuthorizationMiddleware: identity.Authoriz(staticTokenizer{}, identity.RoleOperator),
	})
	return router.Handler(), repo
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewAgentConfigController(t *testing.T) {
	_, err := NewAgentConfigController(nil, nil)
	assert.ErrorIs(t, err, ErrNilRepo)
}

func TestAgentConfigRoutes(t *testing.T) {
	h, repo := newHandler(t)
	body := `{"name":"scout","algorithm":"dstar","channel":"blue"}`

	t.Run("create needs an operator", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/v1/agents", "", body).Code)
		assert.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/api/v1/agents", "viewer", body).Code)
		assert.Empty(t, repo.configs)
	})

	w := do(h, http.MethodPost, "/api/v1/agents", "operator", body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created dmn.AgentConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "scout", created.Name)
	assert.Equal(t, "blue", created.Channel)
	assert.Contains(t, repo.configs, created.ID)

	t.Run("create rejects", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want int
		}{
			{"missing algorithm", `{"name":"other"}`, http.StatusBadRequest},
			{"invalid name", `{"name":"a b","algorithm":"astar"}`, http.StatusBadRequest},
			{"channel on astar", `{"name":"other","algorithm":"astar","channel":"blue"}`, http.StatusBadRequest},
			{"taken name", body, http.StatusConflict},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, do(h, http.MethodPost, "/api/v1/agents", "operator", tt.body).Code)
			})
		}
	})

	t.Run("read is public", func(t *testing.T) {
		w := do(h, http.MethodGet, "/api/v1/agents/"+created.ID.String(), "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var got dmn.AgentConfig
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)

		w = do(h, http.MethodGet, "/api/v1/agents?limit=5", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		var all []dmn.AgentConfig
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
		assert.Len(t, all, 1)

		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/agents?limit=0", "", "").Code)
		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/agents/xyz", "", "").Code)
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/agents/"+uuid.NewString(), "", "").Code)
	})

	t.Run("delete", func(t *testing.T) {
		path := "/api/v1/agents/" + created.ID.String()
		assert.Equal(t, http.StatusForbidden, do(h, http.MethodDelete, path, "viewer", "").Code)
		assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, path, "operator", "").Code)
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, path, "operator", "").Code)
		assert.Empty(t, repo.configs)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo.err = errors.New("mongo down")
		defer func() { repo.err = nil }()
		assert.Equal(t, http.StatusInternalServerError, do(h, http.MethodGet, "/api/v1/agents", "", "").Code)
	})
}
