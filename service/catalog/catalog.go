// Package catalog holds the support-option rules shown to bridge users and
// renders them as JSON-ready options or HTML.
package catalog

import (
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/brojonat/bridgehelp/service/support"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Kind classifies a support option.
type Kind string

const (
	KindHelp            Kind = "help"
	KindContact         Kind = "contact"
	KindTroubleshooting Kind = "troubleshooting"
)

func (k Kind) valid() bool {
	switch k {
	case KindHelp, KindContact, KindTroubleshooting:
		return true
	}
	return false
}

// Rule is a support option together with the conditions under which it applies.
// Empty Networks or Wallets match anything. MaxAge of zero means no upper bound.
type Rule struct {
	ID       string        `yaml:"id"`
	Kind     Kind          `yaml:"kind"`
	Title    string        `yaml:"title"`
	Body     string        `yaml:"body"`
	URL      string        `yaml:"url,omitempty"`
	Networks []string      `yaml:"networks,omitempty"`
	Wallets  []string      `yaml:"wallets,omitempty"`
	MinAge   time.Duration `yaml:"min_age,omitempty"`
	MaxAge   time.Duration `yaml:"max_age,omitempty"`
}

// Matches reports whether the rule applies to the given context.
func (r Rule) Matches(rc support.ResolutionContext) bool {
	if len(r.Networks) > 0 && !slices.Contains(r.Networks, rc.FromNetwork) {
		return false
	}
	if len(r.Wallets) > 0 && !slices.Contains(r.Wallets, rc.WalletName) {
		return false
	}
	age := time.Duration(rc.TxAge) * time.Second
	if age < r.MinAge {
		return false
	}
	if r.MaxAge > 0 && age >= r.MaxAge {
		return false
	}
	return true
}

// Option is a single support option as returned to the UI.
type Option struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Options is the catalog's answer for one request.
type Options struct {
	List []Option `json:"list"`
}

// Len returns the number of options.
func (o Options) Len() int {
	return len(o.List)
}

// Catalog is an immutable snapshot of rules.
type Catalog struct {
	rules []Rule
	tmpl  *template.Template
}

// New validates rules and returns a Catalog over a private copy of them.
func New(rules []Rule) (*Catalog, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	copied := make([]Rule, len(rules))
	for i, r := range rules {
		r.Networks = slices.Clone(r.Networks)
		r.Wallets = slices.Clone(r.Wallets)
		copied[i] = r
	}

	return &Catalog{rules: copied, tmpl: tmpl}, nil
}

// Validate checks a rule set for problems that would make it ambiguous.
func Validate(rules []Rule) error {
	var errs []error
	seen := make(map[string]bool, len(rules))

	for i, r := range rules {
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, fmt.Errorf("rule %d: id is required", i))
		} else if seen[r.ID] {
			errs = append(errs, fmt.Errorf("rule %d: duplicate id %q", i, r.ID))
		}
		seen[r.ID] = true

		if !r.Kind.valid() {
			errs = append(errs, fmt.Errorf("rule %q: unknown kind %q", r.ID, r.Kind))
		}
		if strings.TrimSpace(r.Title) == "" {
			errs = append(errs, fmt.Errorf("rule %q: title is required", r.ID))
		}
		if r.MinAge < 0 || r.MaxAge < 0 {
			errs = append(errs, fmt.Errorf("rule %q: ages cannot be negative", r.ID))
		}
		if r.MaxAge > 0 && r.MaxAge <= r.MinAge {
			errs = append(errs, fmt.Errorf("rule %q: max_age (%v) must exceed min_age (%v)", r.ID, r.MaxAge, r.MinAge))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %v", errs)
	}
	return nil
}

// Rules returns a copy of the catalog's rules in order.
func (c *Catalog) Rules() []Rule {
	return slices.Clone(c.rules)
}

// OptionsRendered selects the options that apply to rc, in catalog order.
func (c *Catalog) OptionsRendered(rc support.ResolutionContext) support.Options {
	opts := Options{List: []Option{}}
	for _, r := range c.rules {
		if !r.Matches(rc) {
			continue
		}
		opts.List = append(opts.List, Option{
			ID:    r.ID,
			Kind:  r.Kind,
			Title: r.Title,
			Body:  r.Body,
			URL:   r.URL,
		})
	}
	return opts
}

// OptionsHTML renders options produced by OptionsRendered.
func (c *Catalog) OptionsHTML(opts support.Options) (string, error) {
	o, ok := opts.(Options)
	if !ok {
		return "", fmt.Errorf("unexpected options type %T", opts)
	}

	var b strings.Builder
	if err := c.tmpl.ExecuteTemplate(&b, "options.html", o); err != nil {
		return "", fmt.Errorf("failed to render options: %w", err)
	}
	return b.String(), nil
}
