package coupang

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProduct(t *testing.T) {
	p, err := toProduct(json.RawMessage(`{"productId":1,"productName":"Kettle","productPrice":15900,"productImage":"https://img/1.jpg","productUrl":"https://www.coupang.com/vp/products/1","isRocket":true}`))
	require.NoError(t, err)
	assert.Equal(t, "Kettle", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(15900), *p.Price)
	assert.Equal(t, "https://img/1.jpg", p.Image)
	assert.Equal(t, "https://www.coupang.com/vp/products/1", p.URL)
}

func TestToProduct_PriceForms(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  *int64
	}{
		{"absent", ``, nil},
		{"null", `,"productPrice":null`, nil},
		{"zero", `,"productPrice":0`, int64Ptr(0)},
		{"quoted", `,"productPrice":"2500"`, int64Ptr(2500)},
		{"integral float", `,"productPrice":3000.0`, int64Ptr(3000)},
		{"max int64", `,"productPrice":9223372036854775807`, int64Ptr(math.MaxInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"productName":"n","productImage":"i","productUrl":"u"` + tt.price + `}`
			p, err := toProduct(json.RawMessage(raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Price)
		})
	}
}

func TestToProduct_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason error
	}{
		{"not an object", `"productName"`, errMalformedProduct},
		{"wrong field type", `{"productName":12,"productImage":"i","productUrl":"u"}`, errMalformedProduct},
		{"missing name", `{"productImage":"i","productUrl":"u"}`, errMissingName},
		{"missing image", `{"productName":"n","productUrl":"u"}`, errMissingImage},
		{"missing url", `{"productName":"n","productImage":"i"}`, errMissingURL},
		{"negative price", `{"productName":"n","productImage":"i","productUrl":"u","productPrice":-1}`, errInvalidPrice},
		{"price overflows int64", `{"productName":"n","productImage":"i","productUrl":"u","productPrice":99999999999999999999}`, errInvalidPrice},
		{"fractional price", `{"productName":"n","productImage":"i","productUrl":"u","productPrice":10.5}`, errInvalidPrice},
		{"text price", `{"productName":"n","productImage":"i","productUrl":"u","productPrice":"cheap"}`, errMalformedProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toProduct(json.RawMessage(tt.raw))
			assert.ErrorIs(t, err, tt.reason)
		})
	}
}

func TestToDeeplinkPair(t *testing.T) {
	pair, ok := toDeeplinkPair(json.RawMessage(`{"originalUrl":"A","shortenUrl":"B","landingUrl":"L"}`))
	require.True(t, ok)
	assert.Equal(t, DeeplinkPair{OriginalURL: "A", ShortenURL: "B", LandingURL: "L"}, pair)

	for _, raw := range []string{`{"originalUrl":"A"}`, `{"shortenUrl":"B"}`, `[]`, `{"originalUrl":1,"shortenUrl":"B"}`} {
		_, ok := toDeeplinkPair(json.RawMessage(raw))
		assert.False(t, ok, raw)
	}
}
