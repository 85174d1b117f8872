package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/mock"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/internal/validators"
	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testUserID = "8d3c1f7e-5b0a-4e2f-9c61-2f6a9b3d4e10"
	testToken  = "valid-token"
)

type testServer struct {
	router      http.Handler
	auth        *mock.MockAuthService
	submissions *mock.MockSubmissionService
	appInfo     *mock.MockAppInfoService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	ts := &testServer{
		auth:        mock.NewMockAuthService(ctrl),
		submissions: mock.NewMockSubmissionService(ctrl),
		appInfo:     mock.NewMockAppInfoService(ctrl),
	}

	services := &service.Services{
		AuthService:       ts.auth,
		SubmissionService: ts.submissions,
		AppInfoService:    ts.appInfo,
	}
	ts.router = NewHandler(services, config.Server{CORSOrigins: []string{"https://forms.example.com"}}, logger.Nop()).Init()

	return ts
}

// expectValidToken makes the auth service accept testToken for testUserID.
func (ts *testServer) expectValidToken() {
	ts.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: testUserID}, nil)
}

func (ts *testServer) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func bearer() []string {
	return []string{"Authorization", "Bearer " + testToken}
}

func sampleSubmission(owner *string) models.Submission {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Submission{
		ID:        "5b8e4c4a-0f3c-4d7b-8a0e-1c2d3e4f5a6b",
		UserID:    owner,
		FormData:  json.RawMessage(`{"company":"Acme"}`),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

// ---- auth ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(ts *testServer)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"email":"owner@example.com","password":"correct-horse"}`,
			setup: func(ts *testServer) {
				ts.auth.EXPECT().
					Register(gomock.Any(), models.Credentials{Email: "owner@example.com", Password: "correct-horse"}).
					Return(models.User{ID: testUserID, Email: "owner@example.com", HashedPassword: "$2a$..."}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			setup:      func(ts *testServer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation failure",
			body: `{"email":"nope","password":"x"}`,
			setup: func(ts *testServer) {
				ts.auth.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(models.User{}, fmt.Errorf("%w: email is invalid", validators.ErrInvalidRequest))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "email taken",
			body: `{"email":"owner@example.com","password":"correct-horse"}`,
			setup: func(ts *testServer) {
				ts.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrConflict)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setup(ts)

			rr := ts.do(http.MethodPost, "/api/v1/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.JSONEq(t, `{"id":"`+testUserID+`","email":"owner@example.com","created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}`, rr.Body.String())
				assert.NotContains(t, rr.Body.String(), "$2a$")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("issues bearer token", func(t *testing.T) {
		ts := newTestServer(t)
		user := models.User{ID: testUserID, Email: "owner@example.com"}
		issued := time.Now()

		ts.auth.EXPECT().Login(gomock.Any(), models.Credentials{Email: "owner@example.com", Password: "correct-horse"}).Return(user, nil)
		ts.auth.EXPECT().CreateToken(gomock.Any(), user).Return(models.Token{
			SignedString: "signed.jwt.value",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(issued),
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}, nil)

		rr := ts.do(http.MethodPost, "/api/v1/auth/login", `{"email":"owner@example.com","password":"correct-horse"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"access_token":"signed.jwt.value","token_type":"bearer","expires_in":3600}`, rr.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{}, service.ErrInvalidCredentials)

		rr := ts.do(http.MethodPost, "/api/v1/auth/login", `{"email":"owner@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("token creation failure hides details", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{ID: testUserID}, nil)
		ts.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).
			Return(models.Token{}, fmt.Errorf("%w: signing key rejected", service.ErrTokenCreationFailed))

		rr := ts.do(http.MethodPost, "/api/v1/auth/login", `{"email":"owner@example.com","password":"correct-horse"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), errorMessage(t, rr))
	})
}

func TestMe(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		setup      func(ts *testServer)
		wantStatus int
	}{
		{
			name:    "authenticated",
			headers: bearer(),
			setup: func(ts *testServer) {
				ts.expectValidToken()
				ts.auth.EXPECT().Me(gomock.Any(), testUserID).Return(models.User{ID: testUserID, Email: "owner@example.com"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			setup:      func(ts *testServer) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			headers:    []string{"Authorization", "Basic dXNlcjpwYXNz"},
			setup:      func(ts *testServer) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			headers: bearer(),
			setup: func(ts *testServer) {
				ts.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "user deleted",
			headers: bearer(),
			setup: func(ts *testServer) {
				ts.expectValidToken()
				ts.auth.EXPECT().Me(gomock.Any(), testUserID).Return(models.User{}, store.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setup(ts)

			rr := ts.do(http.MethodGet, "/api/v1/auth/me", "", tt.headers...)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

// ---- forms ----

func TestSubmit(t *testing.T) {
	t.Run("anonymous caller", func(t *testing.T) {
		ts := newTestServer(t)
		ts.submissions.EXPECT().Submit(gomock.Any(), json.RawMessage(`{"company":"Acme"}`)).
			DoAndReturn(func(ctx context.Context, _ json.RawMessage) (models.Submission, error) {
				_, ok := utils.GetUserIDFromContext(ctx)
				assert.False(t, ok)
				return sampleSubmission(nil), nil
			})

		rr := ts.do(http.MethodPost, "/api/v1/forms/submit", `{"company":"Acme"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var got models.Submission
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Nil(t, got.UserID)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Contains(t, rr.Body.String(), `"strategy_data":null`)
	})

	t.Run("authenticated caller owns the submission", func(t *testing.T) {
		ts := newTestServer(t)
		ts.expectValidToken()
		owner := testUserID
		ts.submissions.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(sampleSubmission(&owner), nil)

		rr := ts.do(http.MethodPost, "/api/v1/forms/submit", `{"company":"Acme"}`, bearer()...)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"user_id":"`+testUserID+`"`)
	})

	t.Run("invalid token is rejected, not downgraded", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)

		rr := ts.do(http.MethodPost, "/api/v1/forms/submit", `{"company":"Acme"}`, bearer()...)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-object body", func(t *testing.T) {
		ts := newTestServer(t)
		ts.submissions.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(models.Submission{}, fmt.Errorf("%w: form data must be a JSON object", validators.ErrInvalidRequest))

		rr := ts.do(http.MethodPost, "/api/v1/forms/submit", `[1,2,3]`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, errorMessage(t, rr), "JSON object")
	})
}

func TestGetSubmission(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "outside scope looks missing", err: store.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "storage failure", err: store.ErrExecutingQuery, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			sub := sampleSubmission(nil)
			if tt.err != nil {
				sub = models.Submission{}
			}
			ts.submissions.EXPECT().Get(gomock.Any(), "5b8e4c4a-0f3c-4d7b-8a0e-1c2d3e4f5a6b").Return(sub, tt.err)

			rr := ts.do(http.MethodGet, "/api/v1/forms/submissions/5b8e4c4a-0f3c-4d7b-8a0e-1c2d3e4f5a6b", "")

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestListSubmissions(t *testing.T) {
	completed := models.StatusCompleted

	t.Run("query parameters reach the service", func(t *testing.T) {
		ts := newTestServer(t)
		ts.expectValidToken()
		ts.submissions.EXPECT().List(gomock.Any(), models.SubmissionQuery{
			Status:   &completed,
			Contains: json.RawMessage(`{"industry":"retail"}`),
			Limit:    10,
			Page:     2,
		}).Return(models.SubmissionPage{Items: []models.Submission{}, Total: 12, Limit: 10, Offset: 10}, nil)

		rr := ts.do(http.MethodGet, `/api/v1/forms/submissions?status=completed&limit=10&page=2&contains=%7B%22industry%22%3A%22retail%22%7D`, "", bearer()...)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"items":[],"total":12,"limit":10,"offset":10}`, rr.Body.String())
	})

	t.Run("requires authentication", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.do(http.MethodGet, "/api/v1/forms/submissions", "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	for _, target := range []string{
		"/api/v1/forms/submissions?limit=ten",
		"/api/v1/forms/submissions?limit=0",
		"/api/v1/forms/submissions?offset=-",
	} {
		t.Run("bad query "+target, func(t *testing.T) {
			ts := newTestServer(t)
			ts.expectValidToken()

			rr := ts.do(http.MethodGet, target, "", bearer()...)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestUpdateSubmissionStatus(t *testing.T) {
	const target = "/api/v1/forms/submissions/5b8e4c4a-0f3c-4d7b-8a0e-1c2d3e4f5a6b/status"

	tests := []struct {
		name       string
		body       string
		wantUpdate models.StatusUpdate
		err        error
		wantStatus int
	}{
		{
			name:       "completed with strategy",
			body:       `{"status":"completed","strategy_data":{"channels":["email"]}}`,
			wantUpdate: models.StatusUpdate{Status: models.StatusCompleted, StrategyData: json.RawMessage(`{"channels":["email"]}`)},
			wantStatus: http.StatusOK,
		},
		{
			name:       "explicit null strategy is treated as absent",
			body:       `{"status":"processing","strategy_data":null}`,
			wantUpdate: models.StatusUpdate{Status: models.StatusProcessing},
			wantStatus: http.StatusOK,
		},
		{
			name:       "transition not allowed",
			body:       `{"status":"pending"}`,
			wantUpdate: models.StatusUpdate{Status: models.StatusPending},
			err:        store.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown status",
			body:       `{"status":"archived"}`,
			wantUpdate: models.StatusUpdate{Status: "archived"},
			err:        fmt.Errorf("%w: status is invalid", validators.ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.expectValidToken()

			result := sampleSubmission(nil)
			if tt.err != nil {
				result = models.Submission{}
			}
			ts.submissions.EXPECT().
				UpdateStatus(gomock.Any(), "5b8e4c4a-0f3c-4d7b-8a0e-1c2d3e4f5a6b", tt.wantUpdate).
				Return(result, tt.err)

			rr := ts.do(http.MethodPut, target, tt.body, bearer()...)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}

	t.Run("malformed body never reaches the service", func(t *testing.T) {
		ts := newTestServer(t)
		ts.expectValidToken()

		rr := ts.do(http.MethodPut, target, `{"status":`, bearer()...)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteSubmission(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		ts := newTestServer(t)
		ts.expectValidToken()
		ts.submissions.EXPECT().Delete(gomock.Any(), "abc").Return(nil)

		rr := ts.do(http.MethodDelete, "/api/v1/forms/submissions/abc", "", bearer()...)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		ts := newTestServer(t)
		ts.expectValidToken()
		ts.submissions.EXPECT().Delete(gomock.Any(), "abc").Return(store.ErrNotFound)

		rr := ts.do(http.MethodDelete, "/api/v1/forms/submissions/abc", "", bearer()...)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.expectValidToken()

	stats := models.NewSubmissionStats()
	stats.Total = 3
	stats.ByStatus[models.StatusPending] = 2
	stats.ByStatus[models.StatusCompleted] = 1
	ts.submissions.EXPECT().Stats(gomock.Any()).Return(stats, nil)

	rr := ts.do(http.MethodGet, "/api/v1/forms/stats", "", bearer()...)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total":3,"by_status":{"pending":2,"processing":0,"completed":1,"failed":0}}`, rr.Body.String())
}

// ---- version and health ----

func TestVersion(t *testing.T) {
	ts := newTestServer(t)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.2.3")

	rr := ts.do(http.MethodGet, "/api/version", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rr.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		status     models.HealthStatus
		wantStatus int
	}{
		{
			name:       "all up",
			status:     models.HealthStatus{Status: models.HealthOK, Database: models.HealthOK, StrategyGenerator: models.HealthOK},
			wantStatus: http.StatusOK,
		},
		{
			name:       "generator down still serves",
			status:     models.HealthStatus{Status: models.HealthDegraded, Database: models.HealthOK, StrategyGenerator: models.HealthDown},
			wantStatus: http.StatusOK,
		},
		{
			name:       "database down",
			status:     models.HealthStatus{Status: models.HealthDown, Database: models.HealthDown, StrategyGenerator: models.HealthDisabled},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.appInfo.EXPECT().Health(gomock.Any()).Return(tt.status)

			rr := ts.do(http.MethodGet, "/health", "")

			assert.Equal(t, tt.wantStatus, rr.Code)
			var got models.HealthStatus
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.status, got)
		})
	}
}

// ---- routing ----

func TestRoutes_Fallbacks(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rr.Body.String())

	rr = ts.do(http.MethodPatch, "/api/v1/forms/stats", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}

func TestRoutes_TraceIDAndCORS(t *testing.T) {
	ts := newTestServer(t)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.0.0")

	rr := ts.do(http.MethodGet, "/api/version", "", "Origin", "https://forms.example.com", traceIDHeader, "trace-123")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "trace-123", rr.Header().Get(traceIDHeader))
	assert.Equal(t, "https://forms.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_Preflight(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodOptions, "/api/v1/forms/submit", "",
		"Origin", "https://forms.example.com",
		"Access-Control-Request-Method", http.MethodPost,
		"Access-Control-Request-Headers", "Authorization, Content-Type",
	)

	assert.Less(t, rr.Code, 300)
	assert.Equal(t, "https://forms.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

// ---- error mapping ----

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", fmt.Errorf("create user: %w", store.ErrConflict), http.StatusConflict},
		{"validation", store.ErrValidation, http.StatusBadRequest},
		{"reference", store.ErrReference, http.StatusUnprocessableEntity},
		{"transition", store.ErrInvalidTransition, http.StatusConflict},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"request", validators.ErrInvalidRequest, http.StatusBadRequest},
		{"json", ErrInvalidJSON, http.StatusBadRequest},
		{"query", ErrInvalidQueryParameter, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", fmt.Errorf("%w: %w", service.ErrUnauthorized, ErrEmptyAuthorizationHeader), http.StatusUnauthorized},
		{"token", service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
		{"query build", store.ErrBuildingSQLQuery, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
