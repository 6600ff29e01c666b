package notifier

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/smallbiznis/convtrack/internal/conversion/domain"
)

// NoDataMessage is the fixed reply for a report with zero rows.
const NoDataMessage = "📭 No data for this period."

// Renderer formats conversions and reports as chat messages. ModeHTML emits
// Telegram HTML markup with every user-supplied substring escaped; ModePlain
// emits no markup at all, so nothing the network sends can break parsing.
type Renderer struct {
	Mode string
}

const (
	ModeHTML  = "html"
	ModePlain = "plain"
)

// ParseMode returns the Telegram parse_mode value, empty for plain text.
func (r Renderer) ParseMode() string {
	if r.Mode == ModeHTML {
		return "HTML"
	}
	return ""
}

// Conversion renders the per-postback notification.
func (r Renderer) Conversion(c domain.Conversion) string {
	var b strings.Builder
	b.WriteString(r.bold("🔔 New conversion!"))
	b.WriteString("\n\n")
	b.WriteString("🏷 Program: " + r.escape(c.ProgramName) + "\n")
	b.WriteString("📌 Offer: " + r.escape(c.OfferID) + "\n")
	b.WriteString("🛠 Approach: " + r.escape(c.SubID3) + "\n")
	b.WriteString("📊 Goal: " + r.escape(c.Goal) + "\n")
	b.WriteString("⚙️ Status: " + r.escape(c.Status) + "\n")
	b.WriteString("🤑 Payout: " + r.bold(formatRevenue(c.Revenue)+" "+r.escape(c.Currency)) + "\n")
	b.WriteString("🎯 Campaign: " + r.escape(c.SubID4) + "\n")
	b.WriteString("🎯 Adset: " + r.escape(c.SubID5) + "\n")
	b.WriteString("⏰ Converted at: " + r.escape(c.ConversionDate))
	return b.String()
}

// GroupedReport renders per (program, offer) totals under a title. An empty
// report renders the fixed no-data message with no further interpolation.
func (r Renderer) GroupedReport(rows []domain.GroupTotal, title string) string {
	if len(rows) == 0 {
		return NoDataMessage
	}

	var b strings.Builder
	b.WriteString(r.bold("📈 " + r.escape(title)))
	b.WriteString("\n\n")

	var totalRevenue float64
	var totalCount int64
	for _, row := range rows {
		fmt.Fprintf(&b, "▪️ %s / offer %s: %s (%d conversions)\n",
			r.escape(row.ProgramName),
			r.escape(row.OfferID),
			formatRevenue(row.Revenue),
			row.Count,
		)
		totalRevenue += row.Revenue
		totalCount += row.Count
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Σ %s across %d conversions", formatRevenue(totalRevenue), totalCount)
	return b.String()
}

// StatusReport renders the date-range aggregate with the status breakdown.
func (r Renderer) StatusReport(s domain.StatusSummary, title string) string {
	if s.Count == 0 {
		return NoDataMessage
	}

	var b strings.Builder
	b.WriteString(r.bold("📊 " + r.escape(title)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total: %d conversions, %s\n", s.Count, formatRevenue(s.Revenue))
	fmt.Fprintf(&b, "✅ Approved: %d\n", s.Approved)
	fmt.Fprintf(&b, "⏳ Pending: %d\n", s.Pending)
	fmt.Fprintf(&b, "❌ Rejected: %d", s.Rejected)
	return b.String()
}

func (r Renderer) escape(s string) string {
	if r.Mode == ModeHTML {
		return html.EscapeString(s)
	}
	return s
}

func (r Renderer) bold(s string) string {
	if r.Mode == ModeHTML {
		return "<b>" + s + "</b>"
	}
	return s
}

func formatRevenue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
