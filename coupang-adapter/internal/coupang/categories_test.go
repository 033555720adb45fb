package coupang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		token string
		limit int
		want  CategorySpec
	}{
		{"goldbox", 0, GoldBoxSpec(0)},
		{"goldbox", 30, GoldBoxSpec(30)},
		{"coupangPL", 0, PrivateLabelSpec(0, "")},
		{"coupangPL:512x512", 10, PrivateLabelSpec(10, "512x512")},
		{"coupangPL:", 0, PrivateLabelSpec(0, "")},
		{"1001", 0, BestSellersSpec("1001", 0)},
		{" 1012 ", 50, BestSellersSpec("1012", 50)},
		{"bestcategories:1029", 0, BestSellersSpec("1029", 0)},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseCategory(tt.token, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategory_Invalid(t *testing.T) {
	for _, token := range []string{"", "goldbox:x", "bestcategories", "bestcategories:abc", "10a1", "-5", "sale"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseCategory(token, 0)
			assert.ErrorIs(t, err, ErrInvalidCategory)
		})
	}
}

func TestParseCategory_NegativeLimit(t *testing.T) {
	_, err := ParseCategory("goldbox", -1)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestParseCategories_KeepsOrder(t *testing.T) {
	specs, err := ParseCategories([]string{"1001", "goldbox", "coupangPL"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []CategorySpec{BestSellersSpec("1001", 0), GoldBoxSpec(0), PrivateLabelSpec(0, "")}, specs)
}

func TestParseCategories_StopsOnFirstError(t *testing.T) {
	specs, err := ParseCategories([]string{"goldbox", "nope", "1001"}, 0)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Contains(t, err.Error(), `"nope"`)
	assert.Nil(t, specs)
}
