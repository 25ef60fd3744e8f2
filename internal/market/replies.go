package market

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for phrase templates.
var templateFuncs = sprig.TxtFuncMap()

// PhraseData is the context available to phrase templates.
type PhraseData struct {
	Vendor   string
	Player   string
	Good     string
	Unit     string
	Role     string
	Quantity int
	Price    int
	Stock    int
	Currency string
	Occupant string
}

// Phrases are the vendor's lines, as templates. Any field left empty in a
// vendor's asset falls back to the stock phrasing.
type Phrases struct {
	Busy         string `json:"busy,omitempty"`
	WrongKind    string `json:"wrong_kind,omitempty"`
	ExchangeOnly string `json:"exchange_only,omitempty"`
	OutOfStock   string `json:"out_of_stock,omitempty"`
	AskQuantity  string `json:"ask_quantity,omitempty"`
	AskAgain     string `json:"ask_again,omitempty"`
	ShortStock   string `json:"short_stock,omitempty"`
	ShortFunds   string `json:"short_funds,omitempty"`
	ShortGoods   string `json:"short_goods,omitempty"`
	Bought       string `json:"bought,omitempty"`
	Sold         string `json:"sold,omitempty"`
	Timeout      string `json:"timeout,omitempty"`
}

var defaultPhrases = Phrases{
	Busy:         "I'm already haggling with {{ .Occupant }}. Wait your turn.",
	WrongKind:    "We don't serve your kind here.",
	ExchangeOnly: "I deal in coin, not goods.",
	OutOfStock:   "I'm fresh out of {{ .Good }}.",
	AskQuantity:  "How many {{ .Good }} do you want to {{ .Role }}?",
	AskAgain:     "Give me a number. How many?",
	ShortStock:   "I only have {{ .Stock }} {{ .Good }} left.",
	ShortFunds:   "You can't pay {{ .Price }} {{ .Currency }} coin. Come back when you can.",
	ShortGoods:   "You don't have {{ .Quantity }} {{ .Good }} on you.",
	Bought:       "{{ .Quantity }} {{ .Good }} for {{ .Price }} {{ .Currency }} coin. Pleasure doing business.",
	Sold:         "I'll take those {{ .Quantity }} {{ .Good }} off your hands for {{ .Price }} {{ .Currency }} coin.",
	Timeout:      "{{ .Vendor }} shrugs and gets back to business.",
}

// phraseSet holds a vendor's phrases compiled once at build time.
type phraseSet struct {
	templates map[string]*template.Template
}

func compilePhrases(overrides *Phrases) (*phraseSet, error) {
	src := map[string]string{
		"busy":          defaultPhrases.Busy,
		"wrong_kind":    defaultPhrases.WrongKind,
		"exchange_only": defaultPhrases.ExchangeOnly,
		"out_of_stock":  defaultPhrases.OutOfStock,
		"ask_quantity":  defaultPhrases.AskQuantity,
		"ask_again":     defaultPhrases.AskAgain,
		"short_stock":   defaultPhrases.ShortStock,
		"short_funds":   defaultPhrases.ShortFunds,
		"short_goods":   defaultPhrases.ShortGoods,
		"bought":        defaultPhrases.Bought,
		"sold":          defaultPhrases.Sold,
		"timeout":       defaultPhrases.Timeout,
	}

	if overrides != nil {
		apply := func(key, val string) {
			if val != "" {
				src[key] = val
			}
		}
		apply("busy", overrides.Busy)
		apply("wrong_kind", overrides.WrongKind)
		apply("exchange_only", overrides.ExchangeOnly)
		apply("out_of_stock", overrides.OutOfStock)
		apply("ask_quantity", overrides.AskQuantity)
		apply("ask_again", overrides.AskAgain)
		apply("short_stock", overrides.ShortStock)
		apply("short_funds", overrides.ShortFunds)
		apply("short_goods", overrides.ShortGoods)
		apply("bought", overrides.Bought)
		apply("sold", overrides.Sold)
		apply("timeout", overrides.Timeout)
	}

	ps := &phraseSet{templates: make(map[string]*template.Template, len(src))}
	for key, tmplStr := range src {
		tmpl, err := template.New(key).Funcs(templateFuncs).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parsing phrase %q: %w", key, err)
		}
		ps.templates[key] = tmpl
	}

	return ps, nil
}

func (p *phraseSet) render(key string, data PhraseData) string {
	tmpl, ok := p.templates[key]
	if !ok {
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Phrase templates are validated at compile time; an execute
		// failure means a bad field reference. Degrade to silence.
		return ""
	}
	return buf.String()
}
