package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"aurum-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	tenants map[string]*domain.Tenant
}

func (s *stubResolver) Resolve(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if t, ok := s.tenants[tenantID]; ok {
		return t, nil
	}
	return nil, domain.ErrTenantInvalid
}

type stubLoader struct {
	users map[uuid.UUID]*domain.User
}

func (s *stubLoader) Load(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	if u, ok := s.users[userID]; ok && u.TenantID == tenantID {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func setupApp(t *testing.T) (*fiber.App, *domain.Tenant, *domain.User, *domain.User) {
	tenant := &domain.Tenant{TenantID: uuid.New(), Status: domain.TenantActive}
	member := &domain.User{UserID: uuid.New(), TenantID: tenant.TenantID, Role: domain.RoleUser}
	admin := &domain.User{UserID: uuid.New(), TenantID: tenant.TenantID, Role: domain.RoleAdmin}

	resolver := &stubResolver{tenants: map[string]*domain.Tenant{tenant.TenantID.String(): tenant}}
	loader := &stubLoader{users: map[uuid.UUID]*domain.User{member.UserID: member, admin.UserID: admin}}

	app := fiber.New()
	app.Get("/me", ValidateTenant(resolver), Identity(loader), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUser(c).UserID, "tenant_id": GetTenant(c).TenantID})
	})
	app.Get("/admin", ValidateTenant(resolver), Identity(loader), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, tenant, member, admin
}

func get(t *testing.T, app *fiber.App, path, tenantID, userID string) int {
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if tenantID != "" {
		req.Header.Set("X-Tenant-Id", tenantID)
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestValidateTenant(t *testing.T) {
	app, tenant, member, _ := setupApp(t)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", tenant.TenantID.String(), member.UserID.String()))
	assert.Equal(t, fiber.StatusBadRequest, get(t, app, "/me", "", member.UserID.String()))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/me", uuid.NewString(), member.UserID.String()))
}

func TestIdentity(t *testing.T) {
	app, tenant, member, _ := setupApp(t)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", tenant.TenantID.String(), member.UserID.String()))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", tenant.TenantID.String(), ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", tenant.TenantID.String(), "garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", tenant.TenantID.String(), uuid.NewString()))
}

func TestRequireAdmin(t *testing.T) {
	app, tenant, member, admin := setupApp(t)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", tenant.TenantID.String(), admin.UserID.String()))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", tenant.TenantID.String(), member.UserID.String()))
}
