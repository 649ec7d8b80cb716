package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSaleType(t *testing.T) {
	tests := []struct {
		raw  string
		want SaleType
	}{
		{"TBS - Retail Price", SaleTypeRetailPrice},
		{"TBS – Retail Price", SaleTypeRetailPrice},
		{"  tbs   -  retail   price ", SaleTypeRetailPrice},
		{"", SaleTypeRetailPrice},
		{"New SKU", SaleTypeNewSku},
		{"TBS - New SKU", SaleTypeNewSku},
		{"TBS - Licensee", SaleTypeLicensee},
		{"TBS—Licensee", SaleTypeOther},
		{"Delisted", SaleTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSaleType(tt.raw))
		})
	}
}

func TestSaleType_String(t *testing.T) {
	assert.Equal(t, "TBS - Retail Price", SaleTypeRetailPrice.String())
	assert.Equal(t, "New SKU", SaleTypeNewSku.String())
	assert.Equal(t, "TBS - Licensee", SaleTypeLicensee.String())
	assert.Equal(t, "Other", SaleTypeOther.String())
}
