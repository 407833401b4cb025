package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   Representation
	}{
		{name: "no header", accept: "", want: Structured},
		{name: "wildcard", accept: "*/*", want: Structured},
		{name: "json", accept: "application/json", want: Structured},
		{name: "html", accept: "text/html", want: Markup},
		{name: "text wildcard", accept: "text/*", want: Markup},
		{name: "browser", accept: "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", want: Markup},
		{name: "json preferred", accept: "text/html;q=0.5, application/json", want: Structured},
		{name: "html preferred", accept: "application/json;q=0.2, text/html", want: Markup},
		{name: "unmatched", accept: "image/png", want: Structured},
		{name: "html refused", accept: "text/html;q=0", want: Structured},
		{name: "text refused", accept: "text/*;q=0", want: Structured},
		{name: "html refused with wildcard", accept: "text/html;q=0, */*", want: Structured},
		{name: "specific html beats refused text", accept: "text/*;q=0, text/html", want: Markup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.accept))
		})
	}
}

func TestRepresentation_String(t *testing.T) {
	assert.Equal(t, "json", Structured.String())
	assert.Equal(t, "html", Markup.String())
}
