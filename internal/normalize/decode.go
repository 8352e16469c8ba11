// Package normalize converts loosely-typed broker feed records into the
// canonical shapes in internal/models. All numeric coercion from the feed
// happens here; downstream components only ever see clean optional decimals.
package normalize

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Raw is one loosely-typed record from the feed: broker-specific field
// names, mixed string/number encodings, possibly nested wrapper objects.
type Raw = map[string]interface{}

// Number coerces a raw feed value into an optional decimal. It accepts
// plain numbers, numeric strings (with thousands separators), json.Number,
// and one level of {"value": ...} / {"amount": ...} wrapper nesting.
// A value that cannot be coerced is null, never zero.
func Number(v interface{}) decimal.NullDecimal {
	return number(v, true)
}

func number(v interface{}, unwrap bool) decimal.NullDecimal {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		return valid(decimal.NewFromFloat(x))
	case float32:
		return valid(decimal.NewFromFloat32(x))
	case int:
		return valid(decimal.NewFromInt(int64(x)))
	case int64:
		return valid(decimal.NewFromInt(x))
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case decimal.Decimal:
		return valid(x)
	case map[string]interface{}:
		if !unwrap {
			return decimal.NullDecimal{}
		}
		for _, key := range []string{"value", "amount"} {
			if inner, ok := x[key]; ok {
				// Only one wrapper level is unwrapped.
				return number(inner, false)
			}
		}
		return decimal.NullDecimal{}
	default:
		return decimal.NullDecimal{}
	}
}

func parseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return valid(d)
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Text coerces a raw feed value into a trimmed string, or "" when the value
// is absent or not string-like.
func Text(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}

// foldKey lowercases a key and strips spaces and punctuation so that
// "Net Liquidation", "net_liquidation" and "netLiquidation" all collide.
func foldKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// lookup resolves a field by trying exact key spellings in order, then
// falling back to case/punctuation-insensitive matching.
func lookup(m Raw, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	// Fold keys in sorted order so a collision resolves the same way on
	// every run regardless of map iteration order.
	rawKeys := make([]string, 0, len(m))
	for k := range m {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)
	folded := make(map[string]interface{}, len(m))
	for _, k := range rawKeys {
		f := foldKey(k)
		if _, taken := folded[f]; !taken {
			folded[f] = m[k]
		}
	}
	for _, k := range keys {
		if v, ok := folded[foldKey(k)]; ok {
			return v, true
		}
	}
	return nil, false
}

// lookupNumber combines lookup and Number.
func lookupNumber(m Raw, keys ...string) decimal.NullDecimal {
	v, ok := lookup(m, keys...)
	if !ok {
		return decimal.NullDecimal{}
	}
	return Number(v)
}
