package classifier

import (
	"testing"

	"fjacquet/tbs-price-summary/internal/logging"
	"fjacquet/tbs-price-summary/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func retail(oldPrice, newPrice string) models.PriceChangeRecord {
	return models.PriceChangeRecord{
		ArticleNumber: "1001",
		SaleType:      models.SaleTypeRetailPrice,
		Manufacturer:  "LABATT",
		ProductName:   "budweiser",
		PackSizeLabel: "30C",
		OldPrice:      dec(oldPrice),
		NewPrice:      dec(newPrice),
	}
}

func TestClassify_RetailThresholds(t *testing.T) {
	tests := []struct {
		name     string
		oldPrice string
		newPrice string
		expected models.Category
	}{
		{"deep discount", "51.49", "45.99", models.CategoryBeginLTO},
		{"return from discount", "27.99", "29.99", models.CategoryEndLTO},
		{"lower bound inclusive", "100.00", "96.00", models.CategoryPermanentChange},
		{"upper bound inclusive", "100.00", "104.00", models.CategoryPermanentChange},
		{"just below lower bound", "100.00", "95.99", models.CategoryBeginLTO},
		{"just above upper bound", "100.00", "104.01", models.CategoryEndLTO},
		{"no change", "30.00", "30.00", models.CategoryPermanentChange},
		{"small increase", "49.99", "50.99", models.CategoryPermanentChange},
	}

	c := New(WithLogger(logging.NewMockLogger()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := c.Classify(retail(tt.oldPrice, tt.newPrice))
			assert.Equal(t, tt.expected, got.Category)
			assert.True(t, got.HasPercentage)
			assert.Empty(t, warnings)
		})
	}
}

func TestClassify_Percentage(t *testing.T) {
	c := New(WithLogger(logging.NewMockLogger()))

	got, _ := c.Classify(retail("51.49", "45.99"))
	assert.Equal(t, "89.3", got.PercentageOfOldPrice.StringFixed(1))

	got, _ = c.Classify(retail("27.99", "29.99"))
	assert.Equal(t, "107.1", got.PercentageOfOldPrice.StringFixed(1))
}

func TestClassify_SaleTypes(t *testing.T) {
	mock := logging.NewMockLogger()
	c := New(WithLogger(mock))

	t.Run("new sku ignores prices", func(t *testing.T) {
		rec := retail("0", "49.99")
		rec.SaleType = models.SaleTypeNewSku
		got, warnings := c.Classify(rec)
		assert.Equal(t, models.CategoryNewSku, got.Category)
		assert.Empty(t, warnings)
	})

	t.Run("licensee ignores thresholds", func(t *testing.T) {
		rec := retail("50.00", "20.00")
		rec.SaleType = models.SaleTypeLicensee
		got, warnings := c.Classify(rec)
		assert.Equal(t, models.CategoryLicenseeChange, got.Category)
		assert.Empty(t, warnings)
	})

	t.Run("unknown sale type", func(t *testing.T) {
		rec := retail("50.00", "45.00")
		rec.SaleType = models.SaleTypeOther
		rec.RawSaleType = "Duty Free"
		rec.Row = 9
		got, warnings := c.Classify(rec)
		assert.Equal(t, models.CategoryUnclassified, got.Category)
		require.Len(t, warnings, 1)
		assert.Equal(t, models.WarningUnknownSaleType, warnings[0].Kind)
		assert.Equal(t, 9, warnings[0].Row)
		assert.Contains(t, warnings[0].Message, "Duty Free")
		assert.True(t, mock.HasEntry("WARN", "Data quality issue"))
	})

	t.Run("zero old price", func(t *testing.T) {
		got, warnings := c.Classify(retail("0", "45.00"))
		assert.Equal(t, models.CategoryUnclassified, got.Category)
		assert.False(t, got.HasPercentage)
		require.Len(t, warnings, 1)
		assert.Equal(t, models.WarningZeroOldPrice, warnings[0].Kind)
		assert.Equal(t, ErrZeroOldPrice.Error(), warnings[0].Message)
	})
}

func TestClassify_NegativePrices(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.PriceChangeRecord
		contains string
	}{
		{name: "negative old price", rec: retail("-5.50", "45.99"), contains: "old -5.50"},
		{name: "negative new price", rec: retail("51.49", "-1"), contains: "new -1.00"},
		{
			name: "negative licensee price",
			rec: func() models.PriceChangeRecord {
				r := retail("-30", "31.75")
				r.SaleType = models.SaleTypeLicensee
				return r
			}(),
			contains: "old -30.00",
		},
		{
			name: "negative new sku price",
			rec: func() models.PriceChangeRecord {
				r := retail("0", "-49.99")
				r.SaleType = models.SaleTypeNewSku
				return r
			}(),
			contains: "new -49.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := logging.NewMockLogger()
			got, warnings := New(WithLogger(mock)).Classify(tt.rec)

			assert.Equal(t, models.CategoryUnclassified, got.Category)
			assert.False(t, got.HasPercentage)
			require.Len(t, warnings, 1)
			assert.Equal(t, models.WarningNegativePrice, warnings[0].Kind)
			assert.Contains(t, warnings[0].Message, ErrNegativePrice.Error())
			assert.Contains(t, warnings[0].Message, tt.contains)
			assert.True(t, mock.HasEntry("WARN", "Data quality issue"))
		})
	}
}

func TestClassify_ChangeAmountDrift(t *testing.T) {
	c := New(WithLogger(logging.NewMockLogger()))

	rec := retail("51.49", "45.99")
	supplied := dec("-5.50")
	rec.SuppliedChange = &supplied
	_, warnings := c.Classify(rec)
	assert.Empty(t, warnings)

	wrong := dec("-5.00")
	rec.SuppliedChange = &wrong
	got, warnings := c.Classify(rec)
	assert.Equal(t, models.CategoryBeginLTO, got.Category)
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningChangeAmountDrift, warnings[0].Kind)
	assert.True(t, got.ChangeAmount().Equal(dec("-5.50")))
}

func TestClassify_EndLTOEscalation(t *testing.T) {
	history := PriorPriceFunc(func(key string) (decimal.Decimal, bool) {
		switch key {
		case "1001":
			return dec("29.99"), true
		case "2002":
			return dec("28.49"), true
		default:
			return decimal.Zero, false
		}
	})
	c := New(WithPriorPriceLookup(history), WithLogger(logging.NewMockLogger()))

	back := retail("27.99", "29.99")
	got, _ := c.Classify(back)
	assert.Equal(t, models.CategoryEndLTO, got.Category)
	require.NotNil(t, got.PriorPrice)
	assert.True(t, got.PriorPrice.Equal(dec("29.99")))

	moved := retail("27.99", "29.99")
	moved.ArticleNumber = "2002"
	got, _ = c.Classify(moved)
	assert.Equal(t, models.CategoryEndLTOAndPermanentChange, got.Category)

	unknown := retail("27.99", "29.99")
	unknown.ArticleNumber = "3003"
	got, _ = c.Classify(unknown)
	assert.Equal(t, models.CategoryEndLTO, got.Category)
	assert.Nil(t, got.PriorPrice)
}

func TestClassify_CustomBand(t *testing.T) {
	c := New(WithPermanentBand(dec("95"), dec("105")), WithLogger(logging.NewMockLogger()))

	got, _ := c.Classify(retail("100.00", "95.50"))
	assert.Equal(t, models.CategoryPermanentChange, got.Category)

	got, _ = c.Classify(retail("100.00", "94.99"))
	assert.Equal(t, models.CategoryBeginLTO, got.Category)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := New(WithLogger(logging.NewMockLogger()))
	records := []models.PriceChangeRecord{
		retail("27.99", "29.99"),
		retail("51.49", "45.99"),
		retail("0", "10.00"),
	}

	classified, warnings := c.ClassifyAll(records)
	require.Len(t, classified, 3)
	assert.Equal(t, models.CategoryEndLTO, classified[0].Category)
	assert.Equal(t, models.CategoryBeginLTO, classified[1].Category)
	assert.Equal(t, models.CategoryUnclassified, classified[2].Category)
	assert.Len(t, warnings, 1)
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(WithLogger(logging.NewMockLogger()))
	rec := retail("51.49", "45.99")
	first, _ := c.Classify(rec)
	for i := 0; i < 10; i++ {
		again, _ := c.Classify(rec)
		assert.Equal(t, first, again)
	}
}

func TestDecide(t *testing.T) {
	assert.Equal(t, models.CategoryBeginLTO, Decide(dec("95.999"), DefaultPermanentLower, DefaultPermanentUpper))
	assert.Equal(t, models.CategoryPermanentChange, Decide(dec("96"), DefaultPermanentLower, DefaultPermanentUpper))
	assert.Equal(t, models.CategoryPermanentChange, Decide(dec("104"), DefaultPermanentLower, DefaultPermanentUpper))
	assert.Equal(t, models.CategoryEndLTO, Decide(dec("104.0001"), DefaultPermanentLower, DefaultPermanentUpper))
}
