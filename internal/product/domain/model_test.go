package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		current string
		qty     int64
		want    string
	}{
		{"empty stock", StatusInStock, 0, StatusOutOfStock},
		{"negative stock", "Discontinued", -2, StatusOutOfStock},
		{"restocked", StatusOutOfStock, 5, StatusInStock},
		{"new product", "", 5, StatusInStock},
		{"manual status kept", "Discontinued", 5, "Discontinued"},
		{"in stock stays", StatusInStock, 1, StatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.current, decimal.NewFromInt(tc.qty)))
		})
	}
}
