package relay

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// destinationResolvers are evaluated in order, the first non-empty result wins.
var destinationResolvers = []func(req *Request, cfg Config) string{
	func(req *Request, _ Config) string { return req.To },
	func(req *Request, _ Config) string { return req.ToAddress },
	func(req *Request, _ Config) string { return req.Treasury },
	func(_ *Request, cfg Config) string { return cfg.DefaultDestination },
}

// amountResolver reports ok=false when the request does not carry its field at all.
// A present field that does not hold a positive number is an error, not a fallthrough.
type amountResolver func(req *Request, cfg Config) (amount decimal.Decimal, ok bool, err error)

// amountResolvers are evaluated in order, the first present field is authoritative.
// The percentage override is applied later, once the balance is known.
var amountResolvers = []amountResolver{
	resolveNativeAmount,
	resolveFiatAmount,
}

func resolveDestination(req *Request, cfg Config) (common.Address, error) {
	for _, resolve := range destinationResolvers {
		candidate := strings.TrimSpace(resolve(req, cfg))
		if candidate == "" {
			continue
		}

		if !common.IsHexAddress(candidate) {
			return common.Address{}, ErrInvalidDestination
		}

		return common.HexToAddress(candidate), nil
	}

	return common.Address{}, ErrMissingDestination
}

// resolveStaticAmount returns the amount requested through the native or fiat fields.
// ok is false if neither was sent.
func resolveStaticAmount(req *Request, cfg Config) (decimal.Decimal, bool, error) {
	for _, resolve := range amountResolvers {
		amount, ok, err := resolve(req, cfg)
		if err != nil {
			return decimal.Zero, false, err
		}
		if ok {
			return amount, true, nil
		}
	}

	return decimal.Zero, false, nil
}

func resolveNativeAmount(req *Request, _ Config) (decimal.Decimal, bool, error) {
	raw := firstNonEmpty(req.AmountETH, req.Amount)
	if raw == "" {
		return decimal.Zero, false, nil
	}

	amount, err := parsePositive(raw)
	if err != nil {
		return decimal.Zero, false, err
	}

	return amount, true, nil
}

func resolveFiatAmount(req *Request, cfg Config) (decimal.Decimal, bool, error) {
	raw := strings.TrimSpace(req.AmountUSD)
	if raw == "" {
		return decimal.Zero, false, nil
	}

	usd, err := parsePositive(raw)
	if err != nil {
		return decimal.Zero, false, err
	}

	if !cfg.PriceReference.IsPositive() {
		return decimal.Zero, false, ErrPriceReferenceUnset
	}

	return usd.DivRound(cfg.PriceReference, weiDecimals), true, nil
}

// parsePercentage returns ok=false if no percentage was sent. A share above 100 is left to
// the balance check.
func parsePercentage(raw string) (decimal.Decimal, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false, nil
	}

	pct, err := parsePositive(raw)
	if err != nil {
		return decimal.Zero, false, err
	}

	return pct, true, nil
}

// percentageOfBalance withholds the gas reserve before taking the share of the balance.
func percentageOfBalance(balance decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return balance.Sub(GasReserve).Mul(pct).Div(hundred)
}

func parsePositive(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
