package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sinecarbon/config"
	"sinecarbon/internal/app"
	"sinecarbon/internal/controllers"
	adminController "sinecarbon/internal/controllers/admin"
	recommendationController "sinecarbon/internal/controllers/recommendation"
	"sinecarbon/internal/events"
	"sinecarbon/internal/handlers/middleware"
	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/services"
	"sinecarbon/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeRecommendationController struct {
	next       *services.NextActions
	outcome    *services.OutcomeResult
	outcomeErr error
	bucketList services.BucketList
	lastID     string
	lastReq    recommendationController.OutcomeRequest
}

func (f *fakeRecommendationController) GetNextActions(
	ctx context.Context,
	user *models.User,
) (*services.NextActions, error) {
	return f.next, nil
}

func (f *fakeRecommendationController) RecordOutcome(
	ctx context.Context,
	user *models.User,
	recommendationID string,
	req recommendationController.OutcomeRequest,
) (*services.OutcomeResult, error) {
	f.lastID = recommendationID
	f.lastReq = req
	return f.outcome, f.outcomeErr
}

func (f *fakeRecommendationController) GetBucketList(
	ctx context.Context,
	user *models.User,
) services.BucketList {
	return f.bucketList
}

type fakeAdminController struct {
	policy    models.RankingPolicy
	updateErr error
}

func (f *fakeAdminController) GetRules(ctx context.Context) models.RankingPolicy {
	return f.policy
}

func (f *fakeAdminController) UpdateRules(
	ctx context.Context,
	policy models.RankingPolicy,
) (models.RankingPolicy, error) {
	if f.updateErr != nil {
		return models.RankingPolicy{}, f.updateErr
	}
	policy.Version = f.policy.Version + 1
	f.policy = policy
	return policy, nil
}

type testServer struct {
	fiber          *fiber.App
	recommendation *fakeRecommendationController
	admin          *fakeAdminController
	userToken      string
	adminToken     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestDatabase(t)
	repos := repositories.New(db)
	cfg := config.Config{GeneralVersion: "test", JWTSecret: testSecret}
	ctx := context.Background()

	user := &models.User{DisplayName: "Asha", IsActive: true}
	require.NoError(t, repos.User.Create(ctx, db.SQL, user))
	adminUser := &models.User{DisplayName: "Ravi", IsActive: true, IsAdmin: true}
	require.NoError(t, repos.User.Create(ctx, db.SQL, adminUser))

	server := &testServer{
		fiber:          fiber.New(),
		recommendation: &fakeRecommendationController{},
		admin:          &fakeAdminController{policy: models.DefaultRankingPolicy()},
		userToken:      signTestToken(t, user.ID),
		adminToken:     signTestToken(t, adminUser.ID),
	}

	testApp := &app.App{
		Database:   db,
		Config:     cfg,
		Middleware: middleware.New(db, events.New(nil), cfg, repos),
		Controllers: controllers.Controllers{
			Recommendation: server.recommendation,
			Admin:          server.admin,
		},
	}
	require.NoError(t, Router(server.fiber, testApp))

	return server
}

func signTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := middleware.SignToken(testSecret, userID, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.fiber.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodGet, "/api/health", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestRecommendationHandler_RequiresAuth(t *testing.T) {
	server := newTestServer(t)

	expired, err := middleware.SignToken(testSecret, uuid.New(), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)
	forged, err := middleware.SignToken("other-secret", uuid.New(), jwt.RegisteredClaims{})
	require.NoError(t, err)
	unknownUser := signTestToken(t, uuid.New())

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "malformed token", token: "not-a-jwt"},
		{name: "expired token", token: expired},
		{name: "wrong secret", token: forged},
		{name: "unknown user", token: unknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := server.do(t, http.MethodGet, "/api/recommendations/next", tt.token, "")
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRecommendationHandler_GetNextActions(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodGet, "/api/recommendations/next", server.userToken, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	server.recommendation.next = &services.NextActions{
		Persona:       "eco_warrior",
		PolicyVersion: 2,
		Primary:       services.CardView{ID: "meatless-monday", Rupees: 1442},
	}

	resp = server.do(t, http.MethodGet, "/api/recommendations/next", server.userToken, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body services.NextActions
	decodeBody(t, resp, &body)
	assert.Equal(t, "meatless-monday", body.Primary.ID)
	assert.Equal(t, int64(1442), body.Primary.Rupees)
	assert.Equal(t, 2, body.PolicyVersion)
}

func TestRecommendationHandler_RecordOutcome(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{
			name:       "recorded",
			body:       `{"outcome":"done","context":{"source":"home"}}`,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "validation failure",
			body:       `{"outcome":"later"}`,
			err:        fmt.Errorf("%w: bad outcome", recommendationController.ErrValidation),
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unknown recommendation",
			body:       `{"outcome":"done"}`,
			err:        fmt.Errorf("%w: missing", services.ErrRecommendationNotFound),
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "infrastructure failure",
			body:       `{"outcome":"done"}`,
			err:        assert.AnError,
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "malformed body",
			body:       `{"outcome":`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)
			server.recommendation.outcomeErr = tt.err
			server.recommendation.outcome = &services.OutcomeResult{
				Outcome:        models.OutcomeDone,
				VerifiedImpact: services.Impact{Rupees: 1442, CO2Kg: 19.231},
			}

			resp := server.do(
				t,
				http.MethodPost,
				"/api/recommendations/led-bulbs/outcome",
				server.userToken,
				tt.body,
			)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRecommendationHandler_RecordOutcomePassesRequest(t *testing.T) {
	server := newTestServer(t)
	server.recommendation.outcome = &services.OutcomeResult{Outcome: models.OutcomeSnooze}

	resp := server.do(
		t,
		http.MethodPost,
		"/api/recommendations/bike-commute/outcome",
		server.userToken,
		`{"outcome":"snooze","context":{"source":"widget"}}`,
	)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "bike-commute", server.recommendation.lastID)
	assert.Equal(t, "snooze", server.recommendation.lastReq.Outcome)
	assert.Equal(t, "widget", server.recommendation.lastReq.Context["source"])
}

func TestRecommendationHandler_GetBucketList(t *testing.T) {
	server := newTestServer(t)
	server.recommendation.bucketList = services.BucketList{
		Items: []services.BucketItem{
			{RecommendationID: "led-bulbs", Status: services.BucketStatusDone},
		},
		Total:     1,
		DoneCount: 1,
	}

	resp := server.do(t, http.MethodGet, "/api/recommendations/bucket-list", server.userToken, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body services.BucketList
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "led-bulbs", body.Items[0].RecommendationID)
}

func TestAdminHandler_RequiresAdmin(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodGet, "/api/admin/rules", server.userToken, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = server.do(t, http.MethodGet, "/api/admin/rules", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = server.do(t, http.MethodGet, "/api/admin/rules", server.adminToken, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var policy models.RankingPolicy
	decodeBody(t, resp, &policy)
	assert.Equal(t, models.DefaultRankingPolicy().Rules, policy.Rules)
}

func TestAdminHandler_UpdateRules(t *testing.T) {
	server := newTestServer(t)

	policy := models.DefaultRankingPolicy()
	policy.Thresholds.QuickWinMaxRupees = 2500
	payload, err := json.Marshal(policy)
	require.NoError(t, err)

	resp := server.do(t, http.MethodPut, "/api/admin/rules", server.adminToken, string(payload))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.RankingPolicy
	decodeBody(t, resp, &updated)
	assert.Equal(t, int64(2500), updated.Thresholds.QuickWinMaxRupees)

	server.admin.updateErr = fmt.Errorf("%w: no rules", adminController.ErrValidation)
	resp = server.do(t, http.MethodPut, "/api/admin/rules", server.adminToken, string(payload))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	server.admin.updateErr = fmt.Errorf("%w: created elsewhere", adminController.ErrConflict)
	resp = server.do(t, http.MethodPut, "/api/admin/rules", server.adminToken, string(payload))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
