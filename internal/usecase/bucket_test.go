package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPrice(t *testing.T) {
	tests := []struct {
		name      string
		price     int64
		wantLabel string
		wantColor string
	}{
		{"well above top threshold", 350_000, "$300k+", "red"},
		{"exactly top threshold", 300_000, "$300k+", "red"},
		{"just under top threshold", 299_999, "$200k - $299k", "lightred"},
		{"exactly 200k", 200_000, "$200k - $299k", "lightred"},
		{"just under 200k", 199_999, "$100k - $199k", "orange"},
		{"exactly 100k", 100_000, "$100k - $199k", "orange"},
		{"just under 100k", 99_999, "Cash < $100k", "green"},
		{"one dollar", 1, "Cash < $100k", "green"},
		{"zero means unparseable or missing", 0, "Unknown", "gray"},
		{"negative", -5, "Unknown", "gray"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ClassifyPrice(tt.price)
			assert.Equal(t, tt.wantLabel, b.Label)
			assert.Equal(t, tt.wantColor, b.Color)
		})
	}
}

func TestClassifyPrice_Total(t *testing.T) {
	// Every price must land in one of the five fixed buckets.
	known := map[string]string{
		"$300k+":        "red",
		"$200k - $299k": "lightred",
		"$100k - $199k": "orange",
		"Cash < $100k":  "green",
		"Unknown":       "gray",
	}
	for price := int64(-100_000); price <= 500_000; price += 7_919 {
		b := ClassifyPrice(price)
		color, ok := known[b.Label]
		assert.True(t, ok, "price %d produced unknown bucket %q", price, b.Label)
		assert.Equal(t, color, b.Color)
	}
}

func TestBucketOrder(t *testing.T) {
	order := BucketOrder()
	assert.Len(t, order, 5)
	assert.Equal(t, "$300k+", order[0].Label)
	assert.Equal(t, "Unknown", order[len(order)-1].Label)
}
