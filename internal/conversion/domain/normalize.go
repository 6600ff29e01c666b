package domain

import (
	"strconv"
	"strings"
)

// NotAvailable is the sentinel stored and rendered for absent postback fields.
const NotAvailable = "N/A"

// Normalize builds a canonical Conversion from an arbitrary key/value mapping.
// Lookup is case-sensitive and exact; absent string fields get the sentinel,
// revenue is coerced to a number with 0 on absence or parse failure, and
// unknown keys are ignored. Normalize is total: it never fails.
func Normalize(input map[string]string) Conversion {
	pick := func(key string) string {
		if v, ok := input[key]; ok && v != "" {
			return v
		}
		return NotAvailable
	}

	return Conversion{
		ProgramName:  pick("program_name"),
		OfferID:      pick("offer_id"),
		ConversionID: pick("conversion_id"),

		SubID1:  pick("sub_id_1"),
		SubID2:  pick("sub_id_2"),
		SubID3:  pick("sub_id_3"),
		SubID4:  pick("sub_id_4"),
		SubID5:  pick("sub_id_5"),
		SubID6:  pick("sub_id_6"),
		SubID7:  pick("sub_id_7"),
		SubID8:  pick("sub_id_8"),
		SubID9:  pick("sub_id_9"),
		SubID10: pick("sub_id_10"),

		Custom1: pick("custom_1"),
		Custom2: pick("custom_2"),
		Custom3: pick("custom_3"),
		Custom4: pick("custom_4"),

		Goal:     pick("goal"),
		Status:   pick("status"),
		Revenue:  parseRevenue(input["revenue"]),
		Currency: pick("currency"),

		Country:        pick("country"),
		ClickID:        pick("click_id"),
		UserID:         pick("user_id"),
		IP:             pick("ip"),
		Promocode:      pick("promocode"),
		ClickDate:      pick("click_date"),
		ConversionDate: pick("conversion_date"),
	}
}

// Values returns the record as the key/value mapping Normalize consumes, so
// normalizing the output of Values is a fixpoint.
func (c Conversion) Values() map[string]string {
	return map[string]string{
		"program_name":  c.ProgramName,
		"offer_id":      c.OfferID,
		"conversion_id": c.ConversionID,

		"sub_id_1":  c.SubID1,
		"sub_id_2":  c.SubID2,
		"sub_id_3":  c.SubID3,
		"sub_id_4":  c.SubID4,
		"sub_id_5":  c.SubID5,
		"sub_id_6":  c.SubID6,
		"sub_id_7":  c.SubID7,
		"sub_id_8":  c.SubID8,
		"sub_id_9":  c.SubID9,
		"sub_id_10": c.SubID10,

		"custom_1": c.Custom1,
		"custom_2": c.Custom2,
		"custom_3": c.Custom3,
		"custom_4": c.Custom4,

		"goal":     c.Goal,
		"status":   c.Status,
		"revenue":  strconv.FormatFloat(c.Revenue, 'f', -1, 64),
		"currency": c.Currency,

		"country":         c.Country,
		"click_id":        c.ClickID,
		"user_id":         c.UserID,
		"ip":              c.IP,
		"promocode":       c.Promocode,
		"click_date":      c.ClickDate,
		"conversion_date": c.ConversionDate,
	}
}

func parseRevenue(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
