package economy

import (
	"regexp"
	"strconv"
	"strings"
)

// CommandKind tags the recognized trade commands.
type CommandKind int

const (
	NoMatch CommandKind = iota
	QueryStock
	QueryPrices
	StartBuy
	StartSell
	SupplyQuantity
)

// Command is the interpreter's verdict on one utterance.
type Command struct {
	Kind CommandKind

	// Good and Slot identify the matched good for StartBuy/StartSell.
	Good string
	Slot int

	// Quantity carries the extracted number for SupplyQuantity.
	Quantity int
}

type keywordRule struct {
	words []string
	kind  CommandKind
}

// Rules are evaluated in order; the first hit wins. Stock queries come
// before price queries so "list" beats "price list".
var keywordRules = []keywordRule{
	{words: []string{"inventory", "stock", "list", "for sale"}, kind: QueryStock},
	{words: []string{"price", "cost"}, kind: QueryPrices},
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// Interpret classifies a free-text utterance against the vendor's good
// display names. Matching is case-insensitive substring containment, goods
// checked in slot order so the first configured slot wins ties. It is a
// pure classifier: whether a SupplyQuantity is meaningful depends on the
// session state, which the caller owns.
func Interpret(text string, goods []string) Command {
	lowered := strings.ToLower(text)

	for _, rule := range keywordRules {
		for _, w := range rule.words {
			if strings.Contains(lowered, w) {
				return Command{Kind: rule.kind}
			}
		}
	}

	good, slot := matchGood(lowered, goods)
	if good != "" {
		if strings.Contains(lowered, "buy") {
			return Command{Kind: StartBuy, Good: good, Slot: slot}
		}
		if strings.Contains(lowered, "sell") {
			return Command{Kind: StartSell, Good: good, Slot: slot}
		}
	}

	if m := digitRun.FindString(lowered); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return Command{Kind: SupplyQuantity, Quantity: n}
		}
	}

	return Command{Kind: NoMatch}
}

// matchGood returns the first good (in slot order) whose display name is
// contained in the utterance, along with its slot index.
func matchGood(lowered string, goods []string) (string, int) {
	for i, g := range goods {
		if g == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(g)) {
			return g, i
		}
	}
	return "", 0
}
