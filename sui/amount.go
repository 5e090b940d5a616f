package sui

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseBaseUnits parses a decimal integer string of base units. Amounts
// cross every boundary as strings; parsing goes straight to big.Int so no
// precision is lost on large balances.
func ParseBaseUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid base-unit amount: %q", s)
	}
	return n, nil
}

// ParseDecimalAmount converts a human-readable amount (e.g. "2.5") into base
// units for a coin with the given decimals. Extra fractional digits beyond
// the coin's precision are truncated.
func ParseDecimalAmount(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	for len(frac) < decimals {
		frac += "0"
	}
	frac = frac[:decimals]

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	return n, nil
}

// FormatAmount renders base units as a human-readable decimal string with
// displayDecimals fractional digits.
func FormatAmount(amount *big.Int, decimals, displayDecimals int) string {
	if amount == nil {
		return "0"
	}
	divisor := pow10(decimals)
	whole := new(big.Int).Quo(amount, divisor)
	remainder := new(big.Int).Rem(amount, divisor)

	if displayDecimals <= 0 {
		return whole.String()
	}
	fracStr := fmt.Sprintf("%0*s", decimals, remainder.String())
	if displayDecimals > decimals {
		fracStr += strings.Repeat("0", displayDecimals-decimals)
	}
	return whole.String() + "." + fracStr[:displayDecimals]
}

// Normalize converts base units to the human-readable float quantity
// (base / 10^decimals). Display only; never feed the result back into
// amount arithmetic.
func Normalize(amount *big.Int, decimals int) float64 {
	if amount == nil {
		return 0
	}
	f := new(big.Float).SetInt(amount)
	d := new(big.Float).SetInt(pow10(decimals))
	out, _ := new(big.Float).Quo(f, d).Float64()
	return out
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// NormalizeCoinType collapses the fully padded form of the native gas token
// to its canonical short form. Other coin types pass through unchanged.
func NormalizeCoinType(coinType string) string {
	if coinType == SUILongType {
		return SUIType
	}
	return coinType
}

// IsSUI reports whether the coin type is any representation of the native
// gas token.
func IsSUI(coinType string) bool {
	return coinType == SUIType || strings.HasSuffix(coinType, "::sui::SUI")
}

// SameCoin reports whether two coin types refer to the same token. Pools and
// wallets disagree about address padding for the same token, so matching is
// done on trailing type-segment identity rather than exact string equality.
func SameCoin(a, b string) bool {
	if NormalizeCoinType(a) == NormalizeCoinType(b) {
		return true
	}
	an, bn := lastSegment(a), lastSegment(b)
	return an != "" && an == bn
}

func lastSegment(coinType string) string {
	i := strings.LastIndex(coinType, "::")
	if i < 0 {
		return ""
	}
	return coinType[i+2:]
}

// Symbol derives a fallback display symbol from a coin type when metadata is
// unavailable.
func Symbol(coinType string) string {
	if s := lastSegment(coinType); s != "" {
		return s
	}
	return coinType
}
