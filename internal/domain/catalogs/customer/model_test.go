package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/types"
)

func TestNormalizeRUT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.345.678-5", "12345678-5"},
		{"12345678-5", "12345678-5"},
		{" 12345678-5 ", "12345678-5"},
		{"9.876.543-k", "9876543-K"},
		{"9876543-K", "9876543-K"},
		{"12 345 678-5", "12345678-5"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRUT(tt.in), "input %q", tt.in)
	}
}

func TestCustomerValidate(t *testing.T) {
	ctx := context.Background()

	c := New("Maria Perez", "12.345.678-5")
	require.NoError(t, c.Validate(ctx))
	assert.Equal(t, "12345678-5", c.RUT)

	t.Run("name required", func(t *testing.T) {
		c := New("", "12345678-5")
		assert.Error(t, c.Validate(ctx))
	})

	t.Run("rut required", func(t *testing.T) {
		c := New("Maria Perez", "  ")
		assert.Error(t, c.Validate(ctx))
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		c := New("Maria Perez", "12345678-5")
		c.CreditEnabled = true
		c.CreditLimit = types.MustMoney("-1")
		assert.Error(t, c.Validate(ctx))
	})

	t.Run("limit requires credit enabled", func(t *testing.T) {
		c := New("Maria Perez", "12345678-5")
		c.CreditLimit = types.MustMoney("10000")
		assert.Error(t, c.Validate(ctx))
	})

	t.Run("enabled with limit ok", func(t *testing.T) {
		c := New("Maria Perez", "12345678-5")
		c.CreditEnabled = true
		c.CreditLimit = types.MustMoney("10000")
		assert.NoError(t, c.Validate(ctx))
	})
}

func TestAvailableCredit(t *testing.T) {
	c := New("Maria Perez", "12345678-5")
	c.CreditEnabled = true
	c.CreditLimit = types.MustMoney("10000")
	c.Balance = types.MustMoney("4000")

	assert.True(t, c.AvailableCredit().Equal(types.MustMoney("6000")))

	// Over-limit accounts report how far over they are.
	c.Balance = types.MustMoney("12000")
	assert.True(t, c.AvailableCredit().Equal(types.MustMoney("-2000")))

	// Disabled account has no capacity regardless of limit.
	c.Balance = types.Zero()
	c.CreditEnabled = false
	assert.True(t, c.AvailableCredit().IsZero())
}

func TestCanPurchase(t *testing.T) {
	c := New("Maria Perez", "12345678-5")
	c.CreditEnabled = true
	c.CreditLimit = types.MustMoney("10000")
	c.Balance = types.MustMoney("4000")

	assert.True(t, c.CanPurchase(types.MustMoney("6000")))
	assert.False(t, c.CanPurchase(types.MustMoney("6000.01")))
	assert.False(t, c.CanPurchase(types.MustMoney("-5")))

	// Zero asks whether the account itself is usable.
	assert.True(t, c.CanPurchase(types.Zero()))
	c.Balance = types.MustMoney("12000")
	assert.False(t, c.CanPurchase(types.Zero()))
	c.Balance = types.MustMoney("4000")

	c.Active = false
	assert.False(t, c.CanPurchase(types.MustMoney("100")))

	c.Active = true
	c.CreditEnabled = false
	assert.False(t, c.CanPurchase(types.MustMoney("100")))
}

func TestHasDebt(t *testing.T) {
	c := New("Maria Perez", "12345678-5")
	assert.False(t, c.HasDebt())

	c.Balance = types.MustMoney("1")
	assert.True(t, c.HasDebt())
}
