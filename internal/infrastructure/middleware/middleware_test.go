package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_chat_server/internal/model"
	"group_chat_server/internal/service/authz"
	"group_chat_server/pkg/errorx"
	"group_chat_server/pkg/util/jwt"
)

type fakeResolver map[uint]model.Role

func (f fakeResolver) ActorOf(userID uint) (authz.Actor, error) {
	role, ok := f[userID]
	if !ok {
		return authz.Actor{}, errorx.ErrUnauthorized
	}
	return authz.Actor{UserID: userID, Role: role}, nil
}

func newEngine(resolver ActorResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(resolver))
	r.GET("/me", func(c *gin.Context) {
		actor := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.UserID, "role": actor.Role})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwt.Init("middleware-test", 5, 1)
	r := newEngine(fakeResolver{1: model.RoleUser, 2: model.RoleAdmin})

	access, err := jwt.GenerateAccessToken(1)
	require.NoError(t, err)
	refresh, _, err := jwt.GenerateRefreshToken(1)
	require.NoError(t, err)
	ghost, err := jwt.GenerateAccessToken(99)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		w := do(r, "/me", "Bearer "+access)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"role":"user"}`, w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		w := do(r, "/me?token="+access, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	cases := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic " + access,
		"refresh token": "Bearer " + refresh,
		"garbage":       "Bearer not.a.token",
		"deleted user":  "Bearer " + ghost,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, "/me", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"code":1006`)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	jwt.Init("middleware-test", 5, 1)
	r := newEngine(fakeResolver{1: model.RoleUser, 2: model.RoleAdmin})

	user, err := jwt.GenerateAccessToken(1)
	require.NoError(t, err)
	admin, err := jwt.GenerateAccessToken(2)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer "+admin).Code)
}

func TestTlsHandlerRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TlsHandler("example.com", 8443))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/ping", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com:8443/ping", w.Header().Get("Location"))
}
