package events

import (
	"time"
)

// Outcome labels how an options request ended.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeUnsupportedProduct Outcome = "unsupported_product"
	OutcomeInvalidInputs      Outcome = "invalid_inputs"
	OutcomeUnresolvedTx       Outcome = "unresolved_tx"
	OutcomeRenderFailed       Outcome = "render_failed"
)

// OptionsEvent describes one finished options request.
// Rejected requests carry only what was known when they were rejected.
type OptionsEvent struct {
	RequestID      string   `json:"request_id"`
	Product        string   `json:"product"`
	Outcome        Outcome  `json:"outcome"`
	Representation string   `json:"representation,omitempty"`
	FromNetwork    string   `json:"from_network,omitempty"`
	WalletName     string   `json:"wallet_name,omitempty"`
	TxHash         string   `json:"tx_hash,omitempty"`
	TxAge          *int64   `json:"tx_age,omitempty"`
	OptionCount    int      `json:"option_count"`
	Errors         []string `json:"errors,omitempty"`

	At time.Time `json:"at"`
}
