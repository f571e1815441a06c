package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/orderdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	enforcer, err := NewEnforcer(conn)
	require.NoError(t, err)

	return NewService(Params{Log: zaptest.NewLogger(t), Enforcer: enforcer})
}

func TestAuthorizeByRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		subject string
		role    string
		object  string
		action  string
		allowed bool
	}{
		{"user creates customer", "user", "User", ObjectCustomer, ActionCustomerCreate, true},
		{"user creates order", "user", "User", ObjectOrder, ActionOrderCreate, true},
		{"user cannot delete customer", "user", "User", ObjectCustomer, ActionCustomerDelete, false},
		{"user cannot delete product", "user", "User", ObjectProduct, ActionProductDelete, false},
		{"admin deletes customer", "admin", "Admin", ObjectCustomer, ActionCustomerDelete, true},
		{"admin deletes product", "admin", "Admin", ObjectProduct, ActionProductDelete, true},
		{"admin reads audit log", "admin", "Admin", ObjectAuditLog, ActionAuditLogView, true},
		{"unknown role", "guest", "Guest", ObjectCustomer, ActionCustomerCreate, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tc.subject, tc.role, tc.object, tc.action)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAuthorizeFollowsRoleChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "carol", "Admin", ObjectProduct, ActionProductDelete))
	assert.ErrorIs(t, svc.Authorize(ctx, "carol", "User", ObjectProduct, ActionProductDelete), ErrForbidden)
}

func TestAuthorizeRejectsIncompleteInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "", "Admin", ObjectCustomer, ActionCustomerDelete), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin", "", ObjectCustomer, ActionCustomerDelete), ErrInvalidRole)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin", "Admin", "", ActionCustomerDelete), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "admin", "Admin", ObjectCustomer, " "), ErrInvalidAction)
}

func TestSeedPoliciesIsIdempotent(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	_, err = NewEnforcer(conn)
	require.NoError(t, err)
	enforcer, err := NewEnforcer(conn)
	require.NoError(t, err)

	policies, err := enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, 14)
}
