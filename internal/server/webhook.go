package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	conversiondomain "github.com/smallbiznis/convtrack/internal/conversion/domain"
	obsmetrics "github.com/smallbiznis/convtrack/internal/observability/metrics"
	"go.uber.org/zap"
)

// HandleWebhook accepts conversion postbacks. POST bodies are parsed as a
// flat JSON object, GET reads the query string; both go through the same
// normalizer. The response is a fixed 200 "OK" once the payload parses,
// regardless of how the store and notify side effects fared.
func (s *Server) HandleWebhook(c *gin.Context) {
	var (
		input map[string]string
		err   error
	)
	switch c.Request.Method {
	case http.MethodPost:
		input, err = decodePostbackBody(c.Request.Body)
	default:
		input = flattenQuery(c)
	}
	if err != nil {
		s.metrics.IncPostback(c.Request.Method, obsmetrics.OutcomeRejected)
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record := conversiondomain.Normalize(input)
	result := s.conversionSvc.Ingest(c.Request.Context(), record)
	s.metrics.IncPostback(c.Request.Method, obsmetrics.OutcomeAccepted)

	s.log.Debug("postback processed",
		zap.String("offer_id", record.OfferID),
		zap.Bool("stored", result.Stored),
		zap.Bool("notified", result.Notified),
	)

	c.String(http.StatusOK, "OK")
}

// decodePostbackBody reads a flat JSON object, stringifying top-level scalar
// values. Nested arrays and objects are dropped, matching the normalizer's
// declared input domain.
func decodePostbackBody(body io.Reader) (map[string]string, error) {
	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, ErrInvalidRequest
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	input := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			input[key] = v
		case float64:
			input[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			input[key] = strconv.FormatBool(v)
		case nil:
			// treated as absent
		}
	}
	return input, nil
}

func flattenQuery(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	input := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			input[key] = values[0]
		}
	}
	return input
}
