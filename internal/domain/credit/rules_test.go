package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/types"
)

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		amount  string
		prior   string
		want    string
		wantErr error
	}{
		{
			name:   "purchase increases debt",
			kind:   KindPurchase,
			amount: "1500",
			prior:  "500",
			want:   "2000",
		},
		{
			name:   "purchase from zero balance",
			kind:   KindPurchase,
			amount: "990.50",
			prior:  "0",
			want:   "990.50",
		},
		{
			name:    "purchase rejects zero amount",
			kind:    KindPurchase,
			amount:  "0",
			prior:   "100",
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "purchase rejects negative amount",
			kind:    KindPurchase,
			amount:  "-10",
			prior:   "100",
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:   "payment decreases debt",
			kind:   KindPayment,
			amount: "300",
			prior:  "1000",
			want:   "700",
		},
		{
			name:   "payment of full balance",
			kind:   KindPayment,
			amount: "1000",
			prior:  "1000",
			want:   "0",
		},
		{
			name:    "payment above balance is overpayment",
			kind:    KindPayment,
			amount:  "1000.01",
			prior:   "1000",
			wantErr: ErrOverpayment,
		},
		{
			name:    "payment rejects zero amount",
			kind:    KindPayment,
			amount:  "0",
			prior:   "1000",
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:   "positive adjustment decreases debt",
			kind:   KindAdjustment,
			amount: "50",
			prior:  "200",
			want:   "150",
		},
		{
			name:   "negative adjustment increases debt",
			kind:   KindAdjustment,
			amount: "-50",
			prior:  "200",
			want:   "250",
		},
		{
			name:   "adjustment may leave negative balance",
			kind:   KindAdjustment,
			amount: "300",
			prior:  "200",
			want:   "-100",
		},
		{
			name:    "adjustment rejects zero amount",
			kind:    KindAdjustment,
			amount:  "0",
			prior:   "200",
			wantErr: ErrZeroAdjustment,
		},
		{
			name:    "unknown kind is rejected",
			kind:    Kind("REFUND"),
			amount:  "10",
			prior:   "0",
			wantErr: ErrUnsupportedKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBalance(tt.kind, types.MustMoney(tt.amount), types.MustMoney(tt.prior))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(types.MustMoney(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindPurchase.Valid())
	assert.True(t, KindPayment.Valid())
	assert.True(t, KindAdjustment.Valid())
	assert.False(t, Kind("").Valid())
	assert.False(t, Kind("purchase").Valid())
}
