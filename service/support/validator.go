package support

import (
	"strings"
)

// Product is the only product this service answers for.
const Product = "rsk-token-bridge"

// Supported source networks and wallet brands.
var (
	defaultNetworks = []string{
		"rsk-mainnet",
		"rsk-testnet",
		"ethereum-mainnet",
		"ethereum-kovan",
	}
	defaultWallets = []string{
		"metamask",
		"nifty",
		"liquality",
	}
)

// AllowList is an immutable set of accepted values.
type AllowList struct {
	members map[string]struct{}
	ordered []string
}

// NewAllowList builds an AllowList from the given values.
func NewAllowList(values ...string) AllowList {
	al := AllowList{
		members: make(map[string]struct{}, len(values)),
		ordered: make([]string, 0, len(values)),
	}
	for _, v := range values {
		if _, dup := al.members[v]; dup {
			continue
		}
		al.members[v] = struct{}{}
		al.ordered = append(al.ordered, v)
	}
	return al
}

// Contains reports whether v is in the set.
func (a AllowList) Contains(v string) bool {
	_, ok := a.members[v]
	return ok
}

// Values returns the members in declaration order.
func (a AllowList) Values() []string {
	return append([]string(nil), a.ordered...)
}

// Validator checks request parameters against fixed allow-lists.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	product  string
	networks AllowList
	wallets  AllowList
}

// NewValidator returns a Validator for the supported product, networks and wallets.
func NewValidator() *Validator {
	return &Validator{
		product:  Product,
		networks: NewAllowList(defaultNetworks...),
		wallets:  NewAllowList(defaultWallets...),
	}
}

// Networks returns the accepted fromNetwork values.
func (v *Validator) Networks() []string { return v.networks.Values() }

// Wallets returns the accepted walletName values.
func (v *Validator) Wallets() []string { return v.wallets.Values() }

// Validate returns validated Params, a *ProductError when the product is not
// served, or ValidationErrors listing every failed query check.
func (v *Validator) Validate(req RequestParameters) (Params, error) {
	if req.Product != v.product {
		return Params{}, &ProductError{Product: req.Product}
	}

	var errs ValidationErrors

	fromNetwork, ok := req.FromNetwork.Value()
	if !ok || !v.networks.Contains(fromNetwork) {
		errs = append(errs, "invalid fromNetwork: "+req.FromNetwork.String())
	}

	txHash, ok := req.TxHash.Value()
	if !ok || !strings.HasPrefix(txHash, "0x") {
		errs = append(errs, "invalid txHash: "+req.TxHash.String())
	}

	walletName, ok := req.WalletName.Value()
	if !ok || !v.wallets.Contains(walletName) {
		errs = append(errs, "invalid walletName: "+req.WalletName.String())
	}

	if len(errs) > 0 {
		return Params{}, errs
	}

	return Params{
		product:     req.Product,
		fromNetwork: fromNetwork,
		txHash:      txHash,
		walletName:  walletName,
	}, nil
}
