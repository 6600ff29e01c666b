package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmptyInput(t *testing.T) {
	record := Normalize(map[string]string{})

	for key, value := range record.Values() {
		if key == "revenue" {
			assert.Equal(t, "0", value)
			continue
		}
		assert.Equal(t, NotAvailable, value, "field %s", key)
	}
}

func TestNormalizeNilInput(t *testing.T) {
	record := Normalize(nil)
	assert.Equal(t, NotAvailable, record.OfferID)
	assert.Equal(t, float64(0), record.Revenue)
}

func TestNormalizeKnownFields(t *testing.T) {
	record := Normalize(map[string]string{
		"program_name":    "acme",
		"offer_id":        "42",
		"sub_id_3":        "push",
		"goal":            "sale",
		"status":          "approved",
		"revenue":         "12.5",
		"currency":        "USD",
		"conversion_date": "2024-05-01",
	})

	assert.Equal(t, "acme", record.ProgramName)
	assert.Equal(t, "42", record.OfferID)
	assert.Equal(t, "push", record.SubID3)
	assert.Equal(t, "sale", record.Goal)
	assert.Equal(t, "approved", record.Status)
	assert.Equal(t, 12.5, record.Revenue)
	assert.Equal(t, "USD", record.Currency)
	assert.Equal(t, "2024-05-01", record.ConversionDate)

	// absent fields still sentinel-filled
	assert.Equal(t, NotAvailable, record.ClickID)
	assert.Equal(t, NotAvailable, record.SubID10)
	assert.Equal(t, NotAvailable, record.Custom4)
}

func TestNormalizeUnknownKeysIgnored(t *testing.T) {
	record := Normalize(map[string]string{
		"offer_id":       "7",
		"totally_new":    "x",
		"sub_id3":        "legacy-key-without-underscore",
		"nested[deeper]": "y",
	})
	assert.Equal(t, "7", record.OfferID)
	assert.Equal(t, NotAvailable, record.SubID3)
}

func TestNormalizeRevenueCoercion(t *testing.T) {
	cases := map[string]float64{
		"12.5":           12.5,
		" 3 ":            3,
		"":               0,
		"free":           0,
		"12,50":          0,
		"-1.25":          -1.25,
		"0.0000000001":   0.0000000001,
		"987654321.0123": 987654321.0123,
	}
	for raw, want := range cases {
		record := Normalize(map[string]string{"revenue": raw})
		assert.Equal(t, want, record.Revenue, "revenue %q", raw)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(map[string]string{
		"offer_id": "42",
		"status":   "pending",
		"revenue":  "9.99",
	})

	second := Normalize(first.Values())
	assert.Equal(t, first, second)
}
