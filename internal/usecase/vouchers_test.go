package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestVoucherValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	vouchers := map[string]*entity.Voucher{
		"DEZ":      {Code: "DEZ", DiscountType: entity.DiscountPercentage, DiscountValue: d("10"), Active: true},
		"CEM":      {Code: "CEM", DiscountType: entity.DiscountPercentage, DiscountValue: d("100"), Active: true},
		"FIXO":     {Code: "FIXO", DiscountType: entity.DiscountFixed, DiscountValue: d("500"), Active: true},
		"FRETE":    {Code: "FRETE", DiscountType: entity.DiscountShipping, Active: true},
		"VELHO":    {Code: "VELHO", DiscountType: entity.DiscountFixed, DiscountValue: d("5"), Active: true, ExpiresAt: &yesterday},
		"ESGOTADO": {Code: "ESGOTADO", DiscountType: entity.DiscountFixed, DiscountValue: d("5"), Active: true, MaxUses: 3, CurrentUses: 3},
		"MINIMO":   {Code: "MINIMO", DiscountType: entity.DiscountFixed, DiscountValue: d("5"), Active: true, MinPurchase: d("1000")},
		"OFF":      {Code: "OFF", DiscountType: entity.DiscountFixed, DiscountValue: d("5")},
	}

	tests := []struct {
		code     string
		valid    bool
		reason   string
		discount string
		shipping string
		total    string
	}{
		{"dez", true, "", "30", "20", "290"},
		{"CEM", true, "", "20", "20", "300"},
		{"FIXO", true, "", "300", "20", "20"},
		{"FRETE", true, "", "0", "0", "300"},
		{"VELHO", false, "expired", "0", "20", "320"},
		{"ESGOTADO", false, "exhausted", "0", "20", "320"},
		{"MINIMO", false, "min_purchase", "0", "20", "320"},
		{"OFF", false, "inactive", "0", "20", "320"},
		{"NADA", false, "not_found", "0", "20", "320"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			repo := new(MockVoucherRepository)
			code := entity.NormalizeVoucherCode(tt.code)
			if v, ok := vouchers[code]; ok {
				repo.On("FindByCode", mock.Anything, code).Return(v, nil)
			} else {
				repo.On("FindByCode", mock.Anything, code).Return(nil, entity.ErrVoucherNotFound)
			}
			uc := NewVoucherUseCase(repo)
			uc.now = func() time.Time { return now }

			out, err := uc.Validate(context.Background(), ValidateVoucherInput{Code: tt.code, Subtotal: d("300"), ShippingFee: d("20")})

			require.NotNil(t, out)
			assert.Equal(t, tt.valid, out.Valid)
			assert.Equal(t, tt.reason, out.Reason)
			assert.True(t, d(tt.total).Equal(out.Total), "total %s", out.Total)
			if tt.valid {
				require.NoError(t, err)
				assert.True(t, d(tt.discount).Equal(out.Discount), "discount %s", out.Discount)
				assert.True(t, d(tt.shipping).Equal(out.ShippingFee), "shipping %s", out.ShippingFee)
				return
			}
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, CodeVoucherRejected, de.Code)
		})
	}
}

func TestVoucherCreate_Validation(t *testing.T) {
	uc := NewVoucherUseCase(new(MockVoucherRepository))

	_, err := uc.Create(context.Background(), VoucherInput{Code: "X", DiscountType: "bogus"})

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "code")
	assert.Contains(t, ve.Error(), "discount_type")
}
