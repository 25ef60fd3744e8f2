package economy

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestInterpret(t *testing.T) {
	goods := []string{"bread", "fish"}

	tests := map[string]struct {
		text string
		exp  Command
	}{
		"stock keyword": {
			text: "what do you have in stock?",
			exp:  Command{Kind: QueryStock},
		},
		"inventory keyword": {
			text: "show me your inventory",
			exp:  Command{Kind: QueryStock},
		},
		"for sale phrase": {
			text: "anything for sale around here",
			exp:  Command{Kind: QueryStock},
		},
		"price keyword": {
			text: "what are your prices",
			exp:  Command{Kind: QueryPrices},
		},
		"cost keyword beats good match": {
			text: "how much does the bread cost",
			exp:  Command{Kind: QueryPrices},
		},
		"stock query beats price query": {
			text: "list your prices",
			exp:  Command{Kind: QueryStock},
		},
		"buy first good": {
			text: "i want to buy some bread",
			exp:  Command{Kind: StartBuy, Good: "bread", Slot: 0},
		},
		"buy is case insensitive": {
			text: "BUY BREAD",
			exp:  Command{Kind: StartBuy, Good: "bread", Slot: 0},
		},
		"sell second good": {
			text: "can i sell you this fish",
			exp:  Command{Kind: StartSell, Good: "fish", Slot: 1},
		},
		"buy without a known good": {
			text: "i would buy a sword",
			exp:  Command{Kind: NoMatch},
		},
		"good without buy or sell": {
			text: "lovely bread you have there",
			exp:  Command{Kind: NoMatch},
		},
		"bare number": {
			text: "15",
			exp:  Command{Kind: SupplyQuantity, Quantity: 15},
		},
		"number inside a sentence": {
			text: "i'll take 3 of them",
			exp:  Command{Kind: SupplyQuantity, Quantity: 3},
		},
		"small talk": {
			text: "nice weather today",
			exp:  Command{Kind: NoMatch},
		},
		"empty utterance": {
			text: "",
			exp:  Command{Kind: NoMatch},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Interpret(tt.text, goods)
			testutil.AssertEqual(t, "kind", got.Kind, tt.exp.Kind)
			testutil.AssertEqual(t, "good", got.Good, tt.exp.Good)
			testutil.AssertEqual(t, "slot", got.Slot, tt.exp.Slot)
			testutil.AssertEqual(t, "quantity", got.Quantity, tt.exp.Quantity)
		})
	}
}

func TestInterpretFirstSlotWinsTies(t *testing.T) {
	// "smoked fish" contains "fish"; the earlier slot wins when both match.
	got := Interpret("buy fish", []string{"fish", "smoked fish"})
	testutil.AssertEqual(t, "good", got.Good, "fish")
	testutil.AssertEqual(t, "slot", got.Slot, 0)
}
