// Package promo maps promo codes to percentage discounts on a subtotal.
package promo

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCode   = errors.New("empty code")
	ErrInvalidCode = errors.New("invalid code")
)

// DefaultCodes is the built-in code table
var DefaultCodes = map[string]decimal.Decimal{
	"FRESH50":   decimal.RequireFromString("0.50"),
	"JUICE10":   decimal.RequireFromString("0.10"),
	"WELCOME20": decimal.RequireFromString("0.20"),
	"SUMMER25":  decimal.RequireFromString("0.25"),
}

// Result of applying a code. A failed apply yields the zero Result, which
// carries no discount.
type Result struct {
	Code     string          `json:"code,omitempty"`
	Fraction decimal.Decimal `json:"fraction"`
	Discount decimal.Decimal `json:"discount"`
	Applied  bool            `json:"applied"`
}

// Engine looks codes up in a fixed table
type Engine struct {
	codes map[string]decimal.Decimal
}

func NewEngine(codes map[string]decimal.Decimal) *Engine {
	normalized := make(map[string]decimal.Decimal, len(codes))
	for code, fraction := range codes {
		normalized[normalize(code)] = fraction
	}
	return &Engine{codes: normalized}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply computes the discount of code on subtotal. Nothing is remembered:
// applying another code simply yields a new Result.
func (e *Engine) Apply(code string, subtotal decimal.Decimal) (Result, error) {
	normalized := normalize(code)
	if normalized == "" {
		return Result{}, ErrEmptyCode
	}
	fraction, ok := e.codes[normalized]
	if !ok {
		return Result{}, ErrInvalidCode
	}
	return Result{
		Code:     normalized,
		Fraction: fraction,
		Discount: subtotal.Mul(fraction),
		Applied:  true,
	}, nil
}

// Codes lists the known codes, sorted
func (e *Engine) Codes() []string {
	codes := make([]string, 0, len(e.codes))
	for code := range e.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
