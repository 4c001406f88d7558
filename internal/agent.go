package internal

import (
	"context"
	"gigbot/entity"
	"strings"
)

const (
	WelcomeIntent  = "Default Welcome Intent"
	FallbackIntent = "Default Fallback Intent"
)

// IntentHandler fulfills one intent by adding replies to the agent.
type IntentHandler func(agent *Agent)

type IntentMap map[string]IntentHandler

// Agent wraps a single webhook call: it exposes the request and accumulates
// the replies that become the webhook response.
type Agent struct {
	Request entity.WebhookRequest
	ctx     context.Context
	replies []string
}

func NewAgent(ctx context.Context, request entity.WebhookRequest) *Agent {
	return &Agent{Request: request, ctx: ctx}
}

func (a *Agent) Context() context.Context {
	return a.ctx
}

func (a *Agent) Intent() string {
	return a.Request.QueryResult.Intent.DisplayName
}

func (a *Agent) Parameters() entity.Parameters {
	return a.Request.QueryResult.Parameters
}

func (a *Agent) Source() string {
	return a.Request.Source()
}

func (a *Agent) Add(text string) {
	a.replies = append(a.replies, text)
}

func (a *Agent) Replies() []string {
	return a.replies
}

// HandleRequest runs the handler registered for the matched intent. Unknown
// intents run the fallback handler. It returns the intent that was run, or ""
// when the map has neither.
func (a *Agent) HandleRequest(intents IntentMap) string {
	intent := a.Intent()
	handler, ok := intents[intent]
	if !ok {
		intent = FallbackIntent
		handler, ok = intents[FallbackIntent]
	}
	if !ok {
		return ""
	}
	handler(a)
	return intent
}

var platforms = map[string]string{
	"slack":    "SLACK",
	"facebook": "FACEBOOK",
	"telegram": "TELEGRAM",
	"google":   "ACTIONS_ON_GOOGLE",
	"line":     "LINE",
	"kik":      "KIK",
	"skype":    "SKYPE",
	"viber":    "VIBER",
}

// Response builds the webhook response from the accumulated replies.
func (a *Agent) Response(sourceName string) entity.WebhookResponse {
	response := entity.WebhookResponse{Source: sourceName}
	if len(a.replies) == 0 {
		return response
	}
	platform := platforms[strings.ToLower(a.Source())]

	response.FulfillmentText = a.replies[0]
	for _, reply := range a.replies {
		response.FulfillmentMessages = append(response.FulfillmentMessages, entity.FulfillmentMessage{
			Text:     &entity.TextMessage{Text: []string{reply}},
			Platform: platform,
		})
	}
	return response
}
