package internal

import (
	"encoding/json"
	"gigbot/conf"
	"gigbot/entity"
	"gigbot/logger"
	"github.com/gorilla/mux"
	"io"
	"net/http"
	"time"
)

const maxBodyBytes = 1 << 20

func RegisterHandlers(router *mux.Router, service Service, config conf.Config) {
	var webhook http.Handler = HandleDialogflowWebHook(service, config.SourceName)
	if config.BasicAuthEnabled() {
		webhook = BasicAuth(config.WebhookUser, config.WebhookPass, webhook)
	}
	router.Handle("/fulfillment", webhook).Methods(http.MethodPost)
}

func RegisterHealthHandlers(router *mux.Router, service Service) {
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !service.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("catalog not loaded"))
			return
		}
		_, _ = w.Write([]byte("ready, catalog refreshed at " + service.RefreshedAt().UTC().Format(time.RFC3339)))
	}).Methods(http.MethodGet)
}

func HandleDialogflowWebHook(service Service, sourceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			logger.WarnCtx(ctx, "could not read webhook body", "error", err.Error())
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}
		logger.DebugCtx(ctx, "dialogflow request", "headers", redactHeaders(r.Header), "body", string(body))

		var request entity.WebhookRequest
		if err := json.Unmarshal(body, &request); err != nil {
			logger.WarnCtx(ctx, "could not decode incoming webhook request", "error", err.Error())
			writeError(w, http.StatusBadRequest, "invalid webhook request")
			return
		}

		start := time.Now()
		agent := NewAgent(ctx, request)
		intent := agent.HandleRequest(service.IntentMap())
		webhookRequests.WithLabelValues(intent).Inc()
		webhookDuration.WithLabelValues(intent).Observe(time.Since(start).Seconds())
		logger.InfoCtx(ctx, "intent fulfilled",
			"intent", intent,
			"matched", request.QueryResult.Intent.DisplayName,
			"session", request.Session,
			"source", agent.Source(),
			"replies", len(agent.Replies()),
		)

		writeJSON(w, http.StatusOK, agent.Response(sourceName))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("could not encode response %s", err.Error())
	}
}

// redactHeaders returns a copy of h safe to log.
func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "[REDACTED]")
	}
	return out
}
