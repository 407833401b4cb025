package support

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Param is a single query parameter as received at the boundary.
// A parameter is only considered a string when the key was supplied exactly once.
type Param struct {
	values []string
}

// ParseQuery decodes a raw query string. Unlike url.ParseQuery it never drops
// a pair: a segment with a bad escape keeps its raw text and ';' is an
// ordinary character.
func ParseQuery(rawQuery string) url.Values {
	q := make(url.Values)
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		k := unescape(key)
		q[k] = append(q[k], unescape(value))
	}
	return q
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// QueryParam extracts the named parameter from a URL query.
func QueryParam(q url.Values, key string) Param {
	return Param{values: q[key]}
}

// StringParam builds a Param holding a single value.
func StringParam(v string) Param {
	return Param{values: []string{v}}
}

// Value returns the parameter and whether it is a single string.
func (p Param) Value() (string, bool) {
	if len(p.values) != 1 {
		return "", false
	}
	return p.values[0], true
}

// String renders the parameter for validation messages.
// Missing parameters render as "undefined" and repeated ones comma-joined.
func (p Param) String() string {
	if len(p.values) == 0 {
		return "undefined"
	}
	return strings.Join(p.values, ",")
}

// RequestParameters is the raw, untrusted input to the options endpoint.
type RequestParameters struct {
	Product     string
	FromNetwork Param
	TxHash      Param
	WalletName  Param
}

// Params is a RequestParameters bundle that passed validation.
// It can only be produced by Validator.Validate.
type Params struct {
	product     string
	fromNetwork string
	txHash      string
	walletName  string
}

// Product returns the validated product identifier.
func (p Params) Product() string { return p.product }

// FromNetwork returns the validated source network.
func (p Params) FromNetwork() string { return p.fromNetwork }

// TxHash returns the 0x-prefixed transaction hash.
func (p Params) TxHash() string { return p.txHash }

// WalletName returns the validated wallet brand.
func (p Params) WalletName() string { return p.walletName }

// TransactionInfo is what the chain-data collaborator reports about a transaction.
type TransactionInfo struct {
	Tx   TxDetails
	Meta TxMeta
}

// TxDetails holds on-chain fields of the transaction.
type TxDetails struct {
	Hash        string
	From        string
	To          string
	BlockNumber uint64
	Pending     bool
}

// TxMeta holds values derived from the transaction at lookup time.
type TxMeta struct {
	BlockTime time.Time
	TxAge     time.Duration
}

// ResolutionContext is the validated, resolved record handed to the catalog.
// TxAge is in whole seconds.
type ResolutionContext struct {
	FromNetwork string `json:"fromNetwork"`
	TxHash      string `json:"txHash"`
	WalletName  string `json:"walletName"`
	TxAge       int64  `json:"txAge"`
	TxFrom      string `json:"txFrom"`
}

// Options is the catalog's result. The pipeline never looks inside it.
type Options any

// TxResolver looks up transaction metadata on a source network.
type TxResolver interface {
	ResolveTransaction(ctx context.Context, network, txHash string) (*TransactionInfo, error)
}

// Catalog maps a resolution context to support options and renders them.
type Catalog interface {
	OptionsRendered(rc ResolutionContext) Options
	OptionsHTML(opts Options) (string, error)
}
