package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/middleware"
	"github.com/techmajster/saas-leave-system/internal/shared/apperror"
	"github.com/techmajster/saas-leave-system/internal/shared/contextutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
			id := middleware.CurrentIdentity(c)
			c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "email": id.Email, "full_name": id.FullName})
		})
		return r
	}

	t.Run("success with sub claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":           "user-1",
			"email":         "Anna@Example.com",
			"user_metadata": map[string]any{"full_name": "Anna Nowak"},
			"exp":           time.Now().Add(time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "user-1", got["user_id"])
		assert.Equal(t, "anna@example.com", got["email"])
		assert.Equal(t, "Anna Nowak", got["full_name"])
	})

	t.Run("negative missing token", func(t *testing.T) {
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeUnauthorized, decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("negative expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
		s, err := token.SignedString([]byte("other"))
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+s)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})
}

type fakeActorResolver struct {
	resolveFn func(ctx context.Context, userID string) (domain.Actor, error)
}

func (f *fakeActorResolver) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	return f.resolveFn(ctx, userID)
}

type fakeEnforcer struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (f *fakeEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func TestResolveActorAndRBAC(t *testing.T) {
	withIdentity := func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}

	t.Run("success actor reaches handler", func(t *testing.T) {
		resolver := &fakeActorResolver{resolveFn: func(ctx context.Context, userID string) (domain.Actor, error) {
			assert.Equal(t, "user-1", userID)
			return domain.Actor{UserID: userID, OrganizationID: "org-1", Role: domain.RoleManager}, nil
		}}
		enforcer := &fakeEnforcer{allowed: true}
		r := gin.New()
		r.GET("/x", withIdentity, middleware.ResolveActor(resolver), middleware.RBACAuthorize(enforcer, "leave_request", "review"), func(c *gin.Context) {
			actor, ok := middleware.CurrentActor(c)
			assert.True(t, ok)
			assert.Equal(t, "org-1", contextutil.GetOrganizationID(c.Request.Context()))
			c.JSON(http.StatusOK, gin.H{"role": actor.Role})
		})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.EnforceRequest{Role: domain.RoleManager, OrganizationID: "org-1", Resource: "leave_request", Action: "review"}, enforcer.got)
	})

	t.Run("negative no membership", func(t *testing.T) {
		resolver := &fakeActorResolver{resolveFn: func(ctx context.Context, userID string) (domain.Actor, error) {
			return domain.Actor{}, apperror.ErrNotFound
		}}
		r := gin.New()
		r.GET("/x", withIdentity, middleware.ResolveActor(resolver), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative rbac denies", func(t *testing.T) {
		resolver := &fakeActorResolver{resolveFn: func(ctx context.Context, userID string) (domain.Actor, error) {
			return domain.Actor{UserID: userID, OrganizationID: "org-1", Role: domain.RoleEmployee}, nil
		}}
		r := gin.New()
		r.GET("/x", withIdentity, middleware.ResolveActor(resolver), middleware.RBACAuthorize(&fakeEnforcer{}, "team", "manage"), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative rbac error hides detail", func(t *testing.T) {
		resolver := &fakeActorResolver{resolveFn: func(ctx context.Context, userID string) (domain.Actor, error) {
			return domain.Actor{UserID: userID, OrganizationID: "org-1", Role: domain.RoleAdmin}, nil
		}}
		r := gin.New()
		r.GET("/x", withIdentity, middleware.ResolveActor(resolver), middleware.RBACAuthorize(&fakeEnforcer{err: errors.New("casbin model broken")}, "team", "manage"), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "casbin")
	})

	t.Run("role middleware", func(t *testing.T) {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			middleware.SetActor(c, domain.Actor{Role: domain.RoleManager})
			c.Next()
		}, middleware.RoleMiddleware(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	calls := 0
	r := gin.New()
	r.POST("/leave-requests", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, middleware.Idempotency(rdb), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"ok": true, "data": gin.H{"n": calls}})
	})

	send := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("replays stored response", func(t *testing.T) {
		first := send("k-1")
		second := send("k-1")

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
		assert.Equal(t, 1, calls)
	})

	t.Run("in flight duplicate is rejected", func(t *testing.T) {
		key := middleware.IdempotencyKey("/leave-requests", "user-1", "k-2") + ":lock"
		require.NoError(t, mr.Set(key, "locked"))

		w := send("k-2")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "PROCESSING", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("without key passes through", func(t *testing.T) {
		before := calls
		send("")
		send("")

		assert.Equal(t, before+2, calls)
	})
}

func TestCronSecret(t *testing.T) {
	r := gin.New()
	r.POST("/cron", middleware.CronSecret("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cron", nil)
		req.Header.Set("X-Cron-Secret", "s3cret")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cron", nil)
		req.Header.Set("X-Cron-Secret", "nope")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RateLimitByIP(1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "propagates caller id", incoming: "req-123", keep: true},
		{name: "mints when missing", incoming: ""},
		{name: "mints when oversized", incoming: strings.Repeat("a", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			var seen string
			r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
				seen = contextutil.GetRequestID(c.Request.Context())
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.Len(t, seen, 36)
			}
		})
	}
}
