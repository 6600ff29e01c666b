package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	conversiondomain "github.com/smallbiznis/convtrack/internal/conversion/domain"
)

// HandleGroupedReport answers totals per (program_name, offer_id).
func (s *Server) HandleGroupedReport(c *gin.Context) {
	filter := conversiondomain.ReportFilter{
		StartDate:   strings.TrimSpace(c.Query("start_date")),
		EndDate:     strings.TrimSpace(c.Query("end_date")),
		OfferID:     strings.TrimSpace(c.Query("offer_id")),
		ProgramName: strings.TrimSpace(c.Query("program_name")),
	}

	totals, err := s.conversionSvc.GroupedReport(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if totals == nil {
		totals = []conversiondomain.GroupTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"groups": totals})
}

// HandleStatusReport answers the date-range aggregate with status breakdown.
func (s *Server) HandleStatusReport(c *gin.Context) {
	summary, err := s.conversionSvc.StatusReport(
		c.Request.Context(),
		strings.TrimSpace(c.Query("start_date")),
		strings.TrimSpace(c.Query("end_date")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
