package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/incident-report-service/internal/api/http"
	"github.com/spec-kit/incident-report-service/internal/api/http/handlers"
	"github.com/spec-kit/incident-report-service/internal/auth"
	"github.com/spec-kit/incident-report-service/internal/config"
	"github.com/spec-kit/incident-report-service/internal/domain"
	"github.com/spec-kit/incident-report-service/internal/observability"
	"github.com/spec-kit/incident-report-service/internal/persistence"
	"github.com/spec-kit/incident-report-service/internal/repository"
	"github.com/spec-kit/incident-report-service/internal/service"
)

type testEnv struct {
	app      *fiber.App
	users    *repository.MemoryUserRepository
	accounts *service.AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	reports := repository.NewMemoryReportRepository()
	history := repository.NewMemoryReportStatusHistoryRepository()

	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	accountService := service.NewAccountService(authCfg, users)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  reports,
		UserRepo:    users,
		HistoryRepo: history,
	})

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: auth.NewAuthMiddleware(accountService.TokenManager(), users),
	})

	return &testEnv{app: app, users: users, accounts: accountService}
}

// registerUser creates an account over the wire and returns its id and token.
func (e *testEnv) registerUser(t *testing.T, name, email string) (string, string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, status, "register failed: %s", body)

	var resp struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			Auth struct {
				Token string `json:"token"`
			} `json:"auth"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data.User.ID, resp.Data.Auth.Token
}

// adminToken seeds an admin directly in the store and mints its token.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)
	admin := &domain.User{Name: "Root", Email: "root@example.com", PasswordHash: hash, IsAdmin: true}
	require.NoError(t, e.users.Create(context.Background(), admin))

	token, _, err := e.accounts.TokenManager().GenerateToken(admin.ID, admin.Name, true)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) (int, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func reportPayload(userID string) map[string]any {
	return map[string]any{
		"type":         "RED_FLAG",
		"title":        "Pothole",
		"description":  "Deep one",
		"latitude":     -1.28,
		"longitude":    36.82,
		"incidentDate": "2024-03-01",
		"reportDate":   "2024-03-02",
		"userId":       userID,
	}
}

func createdReportID(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestReportRoutes_RequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/report", "", reportPayload("someone"))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodGet, "/reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateReport(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerUser(t, "Ada", "ada@example.com")

	t.Run("valid payload returns 201", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/report", token, reportPayload(userID))
		require.Equal(t, http.StatusCreated, status, "body: %s", body)

		var resp struct {
			Data struct {
				Status   string          `json:"status"`
				Location domain.Location `json:"location"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "PENDING", resp.Data.Status)
		assert.Equal(t, domain.Location{Latitude: -1.28, Longitude: 36.82}, resp.Data.Location)
	})

	t.Run("out of range latitude returns 400", func(t *testing.T) {
		payload := reportPayload(userID)
		payload["latitude"] = 95
		status, _ := env.do(t, http.MethodPost, "/report", token, payload)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("missing required fields return 400", func(t *testing.T) {
		payload := reportPayload(userID)
		delete(payload, "incidentDate")
		status, _ := env.do(t, http.MethodPost, "/report", token, payload)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown user returns 404", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPost, "/report", token, reportPayload("no-such-user"))
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestListUserReports(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerUser(t, "Ada", "ada@example.com")
	otherID, _ := env.registerUser(t, "Grace", "grace@example.com")

	status, _ := env.do(t, http.MethodPost, "/report", token, reportPayload(userID))
	require.Equal(t, http.StatusCreated, status)

	t.Run("owner sees reports", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/report/"+userID, token, nil)
		require.Equal(t, http.StatusOK, status)

		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Len(t, resp.Data, 1)
	})

	t.Run("zero reports is 404 not empty success", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/report/"+otherID, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUpdateReport(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerUser(t, "Ada", "ada@example.com")

	status, body := env.do(t, http.MethodPost, "/report", token, reportPayload(userID))
	require.Equal(t, http.StatusCreated, status)
	reportID := createdReportID(t, body)

	t.Run("half coordinate pair returns 400", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPatch, "/report/"+reportID, token, map[string]any{"latitude": 12.0})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("empty update returns 400", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPatch, "/report/"+reportID, token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("valid partial update returns 200", func(t *testing.T) {
		status, body := env.do(t, http.MethodPatch, "/report/"+reportID, token, map[string]any{"title": "Bigger pothole"})
		require.Equal(t, http.StatusOK, status)

		var resp struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "Bigger pothole", resp.Data.Title)
	})

	t.Run("unknown report returns 404", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPatch, "/report/missing", token, map[string]any{"title": "x"})
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerUser(t, "Ada", "ada@example.com")
	adminToken := env.adminToken(t)

	status, body := env.do(t, http.MethodPost, "/report", token, reportPayload(userID))
	require.Equal(t, http.StatusCreated, status)
	reportID := createdReportID(t, body)

	t.Run("non-admin cannot list all or triage", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/reports", token, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = env.do(t, http.MethodPut, "/report/"+reportID, token, map[string]any{"status": "RESOLVED"})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin lists all reports", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, "/reports", adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Len(t, resp.Data, 1)
	})

	t.Run("invalid status returns 400", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPut, "/report/"+reportID, adminToken, map[string]any{"status": "ESCALATED"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("status update then edit is precondition failed", func(t *testing.T) {
		status, _ := env.do(t, http.MethodPut, "/report/"+reportID, adminToken, map[string]any{"status": "UNDER_INVESTIGATION"})
		require.Equal(t, http.StatusOK, status)

		status, _ = env.do(t, http.MethodPatch, "/report/"+reportID, token, map[string]any{"title": "too late"})
		assert.Equal(t, http.StatusPreconditionFailed, status)

		status, _ = env.do(t, http.MethodDelete, "/report/"+reportID, token, nil)
		assert.Equal(t, http.StatusPreconditionFailed, status)
	})

	t.Run("history records transitions", func(t *testing.T) {
		status, body := env.do(t, http.MethodGet, fmt.Sprintf("/report/%s/history", reportID), adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		var resp struct {
			Data []struct {
				OldStatus string `json:"oldStatus"`
				NewStatus string `json:"newStatus"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		require.NotEmpty(t, resp.Data)
		assert.Equal(t, "PENDING", resp.Data[0].OldStatus)
	})
}

func TestDeleteReport(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.registerUser(t, "Ada", "ada@example.com")
	adminToken := env.adminToken(t)

	status, body := env.do(t, http.MethodPost, "/report", token, reportPayload(userID))
	require.Equal(t, http.StatusCreated, status)
	reportID := createdReportID(t, body)

	status, body = env.do(t, http.MethodDelete, "/report/"+reportID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, reportID, createdReportID(t, body))

	status, listBody := env.do(t, http.MethodGet, "/reports", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listBody, &resp))
	for _, item := range resp.Data {
		assert.NotEqual(t, reportID, item.ID)
	}
}
