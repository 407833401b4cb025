package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/brojonat/bridgehelp/service/events"
	"github.com/brojonat/bridgehelp/service/metrics"
	"github.com/brojonat/bridgehelp/service/support"
	json "github.com/goccy/go-json"
)

// optionsResponse is the structured success payload.
type optionsResponse struct {
	Message    string                    `json:"message"`
	Properties support.ResolutionContext `json:"properties"`
	Options    support.Options           `json:"options"`
}

// errorResponse is the body of every rejected request.
type errorResponse struct {
	Error string   `json:"error"`
	Value []string `json:"value"`
}

// counter is implemented by option results that can report their size.
type counter interface {
	Len() int
}

// handleGetOptions returns a handler that resolves support options for a bridge transaction.
// GET /{product}/options?fromNetwork={network}&txHash={hash}&walletName={wallet}
func handleGetOptions(svc *support.Service, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := support.ParseQuery(r.URL.RawQuery)
		req := support.RequestParameters{
			Product:     r.PathValue("product"),
			FromNetwork: support.QueryParam(q, "fromNetwork"),
			TxHash:      support.QueryParam(q, "txHash"),
			WalletName:  support.QueryParam(q, "walletName"),
		}
		rep := Negotiate(r.Header.Get("Accept"))
		w.Header().Set("Vary", "Accept")

		event := &events.OptionsEvent{
			RequestID: requestIDFromContext(ctx),
			Product:   req.Product,
			At:        time.Now().UTC(),
		}
		defer func() {
			if m != nil {
				representation := event.Representation
				if representation == "" {
					representation = "none"
				}
				m.RecordOptionsRequest(string(event.Outcome), representation)
			}
			if err := publisher.Publish(ctx, event); err != nil {
				logger.WarnContext(ctx, "failed to publish options event",
					"request_id", event.RequestID,
					"error", err,
				)
			}
		}()

		res, err := svc.Options(ctx, req)
		if err != nil {
			code, values, outcome := rejection(err)
			event.Outcome = outcome
			event.Errors = values

			var re *support.ResolutionError
			if errors.As(err, &re) {
				event.FromNetwork = re.Network
				event.TxHash = re.TxHash
				event.WalletName, _ = req.WalletName.Value()
			}

			logger.InfoContext(ctx, "options request rejected",
				"request_id", event.RequestID,
				"product", req.Product,
				"error", code,
				"value", values,
			)
			writeError(w, code, values, http.StatusBadRequest)
			return
		}

		rc := res.Context
		age := rc.TxAge
		event.FromNetwork = rc.FromNetwork
		event.WalletName = rc.WalletName
		event.TxHash = rc.TxHash
		event.TxAge = &age
		event.Representation = rep.String()
		if c, ok := res.Options.(counter); ok {
			event.OptionCount = c.Len()
			if m != nil {
				m.RecordOptionsReturned(rc.FromNetwork, rc.WalletName, c.Len())
			}
		}

		switch rep {
		case Markup:
			html, err := svc.RenderHTML(res)
			if err != nil {
				event.Outcome = events.OutcomeRenderFailed
				event.Errors = []string{err.Error()}
				logger.ErrorContext(ctx, "failed to render options",
					"request_id", event.RequestID,
					"error", err,
				)
				writeError(w, "unable to render options", nil, http.StatusInternalServerError)
				return
			}
			event.Outcome = events.OutcomeOK
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, html)
		default:
			event.Outcome = events.OutcomeOK
			writeJSON(w, optionsResponse{
				Message:    "ok",
				Properties: rc,
				Options:    res.Options,
			}, http.StatusOK)
		}

		logger.DebugContext(ctx, "options served",
			"request_id", event.RequestID,
			"representation", event.Representation,
			"option_count", event.OptionCount,
		)
	})
}

// rejection maps a pipeline error to the response error code, its values and the event outcome.
func rejection(err error) (string, []string, events.Outcome) {
	var pe *support.ProductError
	if errors.As(err, &pe) {
		return support.CodeUnsupportedProduct, pe.Values(), events.OutcomeUnsupportedProduct
	}

	var ve support.ValidationErrors
	if errors.As(err, &ve) {
		return support.CodeInvalidInputs, ve.Values(), events.OutcomeInvalidInputs
	}

	var re *support.ResolutionError
	if errors.As(err, &re) {
		return support.CodeUnresolvedTx, re.Values(), events.OutcomeUnresolvedTx
	}

	return support.CodeUnresolvedTx, []string{err.Error()}, events.OutcomeUnresolvedTx
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, values []string, statusCode int) {
	if values == nil {
		values = []string{}
	}
	writeJSON(w, errorResponse{Error: message, Value: values}, statusCode)
}
