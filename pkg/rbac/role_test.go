package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pharmakit/pkg/rbac"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    rbac.Role
		wantErr error
	}{
		{name: "admin", input: "admin", want: rbac.Admin},
		{name: "pharmacist mixed case", input: " Pharmacist ", want: rbac.Pharmacist},
		{name: "customer", input: "customer", want: rbac.Customer},
		{name: "unknown", input: "doctor", wantErr: rbac.ErrInvalidRole},
		{name: "empty", input: "", wantErr: rbac.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rbac.ParseRole(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	t.Run("membership", func(t *testing.T) {
		s := rbac.NewSet(rbac.Admin, rbac.Pharmacist)
		assert.True(t, s.Has(rbac.Admin))
		assert.True(t, s.Has(rbac.Pharmacist))
		assert.False(t, s.Has(rbac.Customer))
		assert.Equal(t, 2, s.Len())
		assert.NoError(t, s.Check(rbac.Admin))
		assert.ErrorIs(t, s.Check(rbac.Customer), rbac.ErrInsufficientRole)
	})

	t.Run("zero value admits nobody", func(t *testing.T) {
		var s rbac.Set
		assert.False(t, s.Has(rbac.Admin))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("invalid roles are dropped", func(t *testing.T) {
		s := rbac.NewSet(rbac.Role("root"), rbac.Customer)
		assert.Equal(t, []rbac.Role{rbac.Customer}, s.Roles())
	})

	t.Run("canonical order", func(t *testing.T) {
		s := rbac.NewSet(rbac.Customer, rbac.Admin)
		assert.Equal(t, "admin,customer", s.String())
		assert.True(t, s.Equal(rbac.NewSet(rbac.Admin, rbac.Customer)))
	})

	t.Run("parse set", func(t *testing.T) {
		s, err := rbac.ParseSet("admin", "pharmacist")
		require.NoError(t, err)
		assert.True(t, s.Equal(rbac.NewSet(rbac.Admin, rbac.Pharmacist)))

		_, err = rbac.ParseSet("admin", "janitor")
		assert.ErrorIs(t, err, rbac.ErrInvalidRole)
	})
}

func TestRoleContext(t *testing.T) {
	t.Parallel()

	_, err := rbac.RoleFromContext(context.Background())
	assert.ErrorIs(t, err, rbac.ErrRoleNotInContext)

	ctx := rbac.SetRoleToContext(context.Background(), rbac.Pharmacist)
	role, err := rbac.RoleFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, rbac.Pharmacist, role)
}
