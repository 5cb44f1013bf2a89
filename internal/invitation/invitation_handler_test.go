package invitation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/domain"
	"github.com/techmajster/saas-leave-system/internal/invitation"
	invitationerrors "github.com/techmajster/saas-leave-system/internal/invitation/errors"
	"github.com/techmajster/saas-leave-system/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
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

type fakeInvitationService struct {
	invitation.Service
	createFn func(ctx context.Context, actor domain.Actor, req invitation.CreateInvitationRequest) (invitation.CreateInvitationResponse, error)
	acceptFn func(ctx context.Context, identity domain.Identity, req invitation.AcceptInvitationRequest) (invitation.AcceptInvitationResponse, error)
}

func (f *fakeInvitationService) Create(ctx context.Context, actor domain.Actor, req invitation.CreateInvitationRequest) (invitation.CreateInvitationResponse, error) {
	return f.createFn(ctx, actor, req)
}

func (f *fakeInvitationService) Accept(ctx context.Context, identity domain.Identity, req invitation.AcceptInvitationRequest) (invitation.AcceptInvitationResponse, error) {
	return f.acceptFn(ctx, identity, req)
}

func bearer(t *testing.T, userID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"name":  "Nina New",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestInvitationHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actor := domain.Actor{UserID: uuid.NewString(), OrganizationID: uuid.NewString(), Role: domain.RoleAdmin}

	newRouter := func(svc invitation.Service) *gin.Engine {
		h := invitation.NewHandler(svc)
		r := gin.New()
		r.POST("/invitations", func(c *gin.Context) {
			middleware.SetActor(c, actor)
			c.Next()
		}, h.Create)
		return r
	}
	post := func(r http.Handler, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/invitations", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeInvitationService{createFn: func(ctx context.Context, a domain.Actor, req invitation.CreateInvitationRequest) (invitation.CreateInvitationResponse, error) {
			assert.Equal(t, actor, a)
			assert.Equal(t, "new@acme.test", req.Email)
			return invitation.CreateInvitationResponse{Token: "tok", EmailSent: true}, nil
		}}

		w := post(newRouter(svc), `{"email":"new@acme.test","role":"employee"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got invitation.CreateInvitationResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &got))
		assert.Equal(t, "tok", got.Token)
	})

	t.Run("negative validation", func(t *testing.T) {
		svc := &fakeInvitationService{}

		w := post(newRouter(svc), `{"email":"not-an-email","role":"owner"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("negative duplicate pending", func(t *testing.T) {
		svc := &fakeInvitationService{createFn: func(ctx context.Context, a domain.Actor, req invitation.CreateInvitationRequest) (invitation.CreateInvitationResponse, error) {
			return invitation.CreateInvitationResponse{}, invitationerrors.ErrPendingInvitationExists
		}}

		w := post(newRouter(svc), `{"email":"new@acme.test","role":"employee"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "There is already a pending invitation for this email", env.Error.Message)
	})
}

func TestInvitationHandler_Accept(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.NewString()

	svc := &fakeInvitationService{acceptFn: func(ctx context.Context, identity domain.Identity, req invitation.AcceptInvitationRequest) (invitation.AcceptInvitationResponse, error) {
		assert.Equal(t, domain.Identity{UserID: userID, Email: "new@acme.test", FullName: "Nina New"}, identity)
		if req.Token != "good" {
			return invitation.AcceptInvitationResponse{}, invitationerrors.ErrInvalidToken
		}
		return invitation.AcceptInvitationResponse{Success: true, Role: domain.RoleEmployee}, nil
	}}
	h := invitation.NewHandler(svc)
	r := gin.New()
	r.POST("/invitations/accept", middleware.AuthMiddleware(testSecret), h.Accept)

	accept := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/invitations/accept", strings.NewReader(`{"token":"`+token+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, userID, "New@Acme.test"))
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := accept("good")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("negative invalid token", func(t *testing.T) {
		w := accept("bad")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "Invalid invitation token", env.Error.Message)
	})
}
