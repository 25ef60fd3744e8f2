package economy

import "fmt"

// Kind partitions the world's economies. Coins of one kind are worthless to
// a vendor configured for another, no matter the amount.
type Kind int

const (
	KindUnknown Kind = iota
	KindCommon
	KindElven
	KindDwarven
	KindOrcish
	KindCorsair
)

func (k Kind) String() string {
	switch k {
	case KindCommon:
		return "common"
	case KindElven:
		return "elven"
	case KindDwarven:
		return "dwarven"
	case KindOrcish:
		return "orcish"
	case KindCorsair:
		return "corsair"
	default:
		return "unknown"
	}
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "common":
		*k = KindCommon
	case "elven":
		*k = KindElven
	case "dwarven":
		*k = KindDwarven
	case "orcish":
		*k = KindOrcish
	case "corsair":
		*k = KindCorsair
	default:
		return fmt.Errorf("unknown currency kind: %s", text)
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, fmt.Errorf("currency kind not set")
	}
	return []byte(k.String()), nil
}
