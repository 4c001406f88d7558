package entity

import (
	"strings"
	"time"
)

const (
	ParamStyle      = "EstilosMusicales"
	ParamDatePeriod = "date-period"
)

type WebhookRequest struct {
	ResponseId                  string                       `json:"responseId"`
	Session                     string                       `json:"session"`
	QueryResult                 QueryResult                  `json:"queryResult"`
	OriginalDetectIntentRequest *OriginalDetectIntentRequest `json:"originalDetectIntentRequest,omitempty"`
}

type QueryResult struct {
	QueryText    string     `json:"queryText"`
	Parameters   Parameters `json:"parameters"`
	Intent       Intent     `json:"intent"`
	LanguageCode string     `json:"languageCode"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type OriginalDetectIntentRequest struct {
	Source  string         `json:"source"`
	Version string         `json:"version,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Source returns the originating platform, empty when the console or the
// simulator made the call.
func (r WebhookRequest) Source() string {
	if r.OriginalDetectIntentRequest == nil {
		return ""
	}
	return r.OriginalDetectIntentRequest.Source
}

// Parameters holds queryResult.parameters as decoded from JSON.
type Parameters map[string]any

// Style returns the requested music style or "".
func (p Parameters) Style() string {
	switch v := p[ParamStyle].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

type DatePeriod struct {
	StartDate time.Time
	EndDate   time.Time
}

// DatePeriod returns the date-period parameter. ok is false when the
// parameter is missing, empty or carries timestamps that do not parse.
func (p Parameters) DatePeriod() (period DatePeriod, ok bool) {
	raw, isMap := p[ParamDatePeriod].(map[string]any)
	if !isMap {
		return DatePeriod{}, false
	}
	start, startOk := raw["startDate"].(string)
	end, endOk := raw["endDate"].(string)
	if !startOk || !endOk {
		return DatePeriod{}, false
	}
	from, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return DatePeriod{}, false
	}
	to, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return DatePeriod{}, false
	}
	return DatePeriod{StartDate: from, EndDate: to}, true
}

type WebhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages,omitempty"`
	Source              string               `json:"source,omitempty"`
}

type FulfillmentMessage struct {
	Text     *TextMessage `json:"text,omitempty"`
	Platform string       `json:"platform,omitempty"`
}

type TextMessage struct {
	Text []string `json:"text"`
}
