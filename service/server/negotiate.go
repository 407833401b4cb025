package server

import (
	"strings"

	"github.com/munnerz/goautoneg"
)

// Representation is the response format chosen for a request.
type Representation int

const (
	// Structured is the JSON envelope.
	Structured Representation = iota
	// Markup is the catalog's HTML rendering.
	Markup
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html"
)

var alternatives = []string{contentTypeJSON, contentTypeHTML}

// Negotiate picks a representation from an Accept header.
// HTML is only chosen when the caller prefers it over JSON. Clauses with
// q=0 mark a type as unacceptable and never match.
func Negotiate(accept string) Representation {
	if accept == "" {
		return Structured
	}
	if negotiate(accept) == contentTypeHTML {
		return Markup
	}
	return Structured
}

// negotiate returns the first alternative matched by an acceptable clause,
// in the caller's order of preference, or "" when none matches.
func negotiate(accept string) string {
	for _, clause := range goautoneg.ParseAccept(accept) {
		if clause.Q <= 0 {
			continue
		}
		for _, alt := range alternatives {
			typ, sub, _ := strings.Cut(alt, "/")
			switch {
			case clause.Type == "*" && clause.SubType == "*":
				return alt
			case clause.Type == typ && (clause.SubType == "*" || clause.SubType == sub):
				return alt
			}
		}
	}
	return ""
}

func (r Representation) String() string {
	switch r {
	case Markup:
		return "html"
	default:
		return "json"
	}
}
