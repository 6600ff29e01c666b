package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Conversion is the canonical record built from one affiliate postback. Every
// string field is sentinel-filled during normalization, so rendering and
// persistence never need presence checks.
type Conversion struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	ProgramName  string `gorm:"column:program_name;not null;index" json:"program_name"`
	OfferID      string `gorm:"column:offer_id;not null;index" json:"offer_id"`
	ConversionID string `gorm:"column:conversion_id;not null;index" json:"conversion_id"`

	SubID1  string `gorm:"column:sub_id_1;not null" json:"sub_id_1"`
	SubID2  string `gorm:"column:sub_id_2;not null" json:"sub_id_2"`
	SubID3  string `gorm:"column:sub_id_3;not null" json:"sub_id_3"`
	SubID4  string `gorm:"column:sub_id_4;not null" json:"sub_id_4"`
	SubID5  string `gorm:"column:sub_id_5;not null" json:"sub_id_5"`
	SubID6  string `gorm:"column:sub_id_6;not null" json:"sub_id_6"`
	SubID7  string `gorm:"column:sub_id_7;not null" json:"sub_id_7"`
	SubID8  string `gorm:"column:sub_id_8;not null" json:"sub_id_8"`
	SubID9  string `gorm:"column:sub_id_9;not null" json:"sub_id_9"`
	SubID10 string `gorm:"column:sub_id_10;not null" json:"sub_id_10"`

	Custom1 string `gorm:"column:custom_1;not null" json:"custom_1"`
	Custom2 string `gorm:"column:custom_2;not null" json:"custom_2"`
	Custom3 string `gorm:"column:custom_3;not null" json:"custom_3"`
	Custom4 string `gorm:"column:custom_4;not null" json:"custom_4"`

	Goal     string  `gorm:"column:goal;not null" json:"goal"`
	Status   string  `gorm:"column:status;not null;index" json:"status"`
	Revenue  float64 `gorm:"column:revenue;not null" json:"revenue"`
	Currency string  `gorm:"column:currency;not null" json:"currency"`

	Country        string `gorm:"column:country;not null" json:"country"`
	ClickID        string `gorm:"column:click_id;not null" json:"click_id"`
	UserID         string `gorm:"column:user_id;not null" json:"user_id"`
	IP             string `gorm:"column:ip;not null" json:"ip"`
	Promocode      string `gorm:"column:promocode;not null" json:"promocode"`
	ClickDate      string `gorm:"column:click_date;not null" json:"click_date"`
	ConversionDate string `gorm:"column:conversion_date;not null;index" json:"conversion_date"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Conversion) TableName() string { return "conversions" }

// Conversion status values commonly reported by affiliate networks. The status
// field stays an opaque string; these are only used for the report breakdown.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// ReportFilter narrows report queries. All fields are optional; a zero filter
// matches every row. Date bounds are inclusive and compared lexicographically
// against conversion_date, which requires the network to send zero-padded
// big-endian dates (YYYY-MM-DD or a prefix-compatible variant).
type ReportFilter struct {
	StartDate   string
	EndDate     string
	OfferID     string
	ProgramName string
}

// GroupTotal is one row of the grouped report: totals per (program, offer).
type GroupTotal struct {
	ProgramName string  `json:"program_name"`
	OfferID     string  `json:"offer_id"`
	Revenue     float64 `json:"revenue"`
	Count       int64   `json:"count"`
}

// StatusSummary is the ungrouped report over a date range with a per-status
// breakdown of the common lifecycle states.
type StatusSummary struct {
	Count    int64   `json:"count"`
	Revenue  float64 `json:"revenue"`
	Approved int64   `json:"approved"`
	Pending  int64   `json:"pending"`
	Rejected int64   `json:"rejected"`
}

// IngestResult reports which side effects of an ingest attempt succeeded.
// Store and notify failures are logged, not returned; the webhook acknowledges
// the postback either way.
type IngestResult struct {
	ID       snowflake.ID `json:"id"`
	Stored   bool         `json:"stored"`
	Notified bool         `json:"notified"`
}
