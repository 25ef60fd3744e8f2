package world

import (
	"testing"

	"github.com/pixil98/go-bazaar/internal/economy"
	"github.com/pixil98/go-bazaar/internal/storage"
	"github.com/pixil98/go-testutil"
)

func testCharacter(kind economy.Kind, purse, bank int) *Character {
	race := &Race{Name: kind.String(), Currency: kind}
	c := NewCharacter("Testy", "hash", storage.NewResolvedSmartIdentifier(kind.String(), race))
	c.Purse = purse
	c.Bank = bank
	return c
}

func TestPurseWithdraw(t *testing.T) {
	tests := map[string]struct {
		kind     economy.Kind
		purse    int
		bank     int
		amount   int
		wantKind economy.Kind
		expOk    bool
		expPurse int
		expBank  int
	}{
		"covered on hand": {
			kind: economy.KindCommon, purse: 100, bank: 50, amount: 60, wantKind: economy.KindCommon,
			expOk: true, expPurse: 40, expBank: 50,
		},
		"bank covers the shortfall": {
			kind: economy.KindCommon, purse: 30, bank: 100, amount: 50, wantKind: economy.KindCommon,
			expOk: true, expPurse: 0, expBank: 80,
		},
		"exact combined funds": {
			kind: economy.KindCommon, purse: 30, bank: 20, amount: 50, wantKind: economy.KindCommon,
			expOk: true, expPurse: 0, expBank: 0,
		},
		"insufficient combined funds": {
			kind: economy.KindCommon, purse: 30, bank: 10, amount: 50, wantKind: economy.KindCommon,
			expOk: false, expPurse: 30, expBank: 10,
		},
		"wrong kind refused despite funds": {
			kind: economy.KindElven, purse: 1000, bank: 1000, amount: 1, wantKind: economy.KindDwarven,
			expOk: false, expPurse: 1000, expBank: 1000,
		},
		"negative amount refused": {
			kind: economy.KindCommon, purse: 100, bank: 0, amount: -5, wantKind: economy.KindCommon,
			expOk: false, expPurse: 100, expBank: 0,
		},
	}

	p := NewPurse(10000)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := testCharacter(tt.kind, tt.purse, tt.bank)
			ok := p.Withdraw(c, tt.amount, tt.wantKind)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			testutil.AssertEqual(t, "purse", c.Purse, tt.expPurse)
			testutil.AssertEqual(t, "bank", c.Bank, tt.expBank)
		})
	}
}

func TestPurseDeposit(t *testing.T) {
	tests := map[string]struct {
		overflow int
		kind     economy.Kind
		purse    int
		amount   int
		payKind  economy.Kind
		expOk    bool
		expPurse int
		expBank  int
	}{
		"fits on hand": {
			overflow: 100, kind: economy.KindCommon, purse: 50, amount: 30, payKind: economy.KindCommon,
			expOk: true, expPurse: 80, expBank: 0,
		},
		"spills into the bank": {
			overflow: 100, kind: economy.KindCommon, purse: 90, amount: 30, payKind: economy.KindCommon,
			expOk: true, expPurse: 100, expBank: 20,
		},
		"zero overflow means unbounded": {
			overflow: 0, kind: economy.KindCommon, purse: 90, amount: 500, payKind: economy.KindCommon,
			expOk: true, expPurse: 590, expBank: 0,
		},
		"wrong kind refused": {
			overflow: 100, kind: economy.KindOrcish, purse: 10, amount: 30, payKind: economy.KindCorsair,
			expOk: false, expPurse: 10, expBank: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := NewPurse(tt.overflow)
			c := testCharacter(tt.kind, tt.purse, 0)
			ok := p.Deposit(c, tt.amount, tt.payKind)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			testutil.AssertEqual(t, "purse", c.Purse, tt.expPurse)
			testutil.AssertEqual(t, "bank", c.Bank, tt.expBank)
		})
	}
}

func TestCharacterKindUnresolvedRace(t *testing.T) {
	c := NewCharacter("Testy", "hash", storage.NewSmartIdentifier[*Race]("dwarven"))
	testutil.AssertEqual(t, "kind", c.Kind(), economy.KindUnknown)
}
