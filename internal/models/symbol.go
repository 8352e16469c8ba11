package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OCC option symbology: TICKER[YYMMDD][C/P][STRIKE*1000 padded to 8 digits].
// Example: SPY240315C00610000 -> SPY 2024-03-15 610.00 call.

// OptionSymbol derives the canonical symbol for a contract. It is a pure
// function of its inputs; equal inputs always produce equal symbols.
func OptionSymbol(underlying string, expiry time.Time, strike decimal.Decimal, typ OptionType) string {
	cp := "C"
	if typ == OptionTypePut {
		cp = "P"
	}
	milli := strike.Shift(3).Round(0).IntPart()
	return fmt.Sprintf("%s%s%s%08d", underlying, expiry.Format("060102"), cp, milli)
}

// ParseOptionSymbol parses an OCC format option symbol. Returns an error for
// anything that is not a well-formed option symbol (e.g. a stock ticker).
func ParseOptionSymbol(symbol string) (underlying string, expiry time.Time, strike decimal.Decimal, typ OptionType, err error) {
	if len(symbol) < 15 {
		err = fmt.Errorf("option symbol too short: %s", symbol)
		return
	}

	// Scan for the six-digit YYMMDD run that separates ticker from contract.
	datePos := -1
	for i := 1; i <= len(symbol)-6; i++ {
		if !isAllDigits(symbol[i : i+6]) {
			continue
		}
		// Require C/P immediately after the date to confirm OCC format.
		if i+6 >= len(symbol) {
			continue
		}
		if c := symbol[i+6]; c != 'C' && c != 'P' {
			continue
		}
		datePos = i
		break
	}
	if datePos == -1 {
		err = fmt.Errorf("no YYMMDD expiration found in symbol: %s", symbol)
		return
	}

	expiry, err = time.Parse("060102", symbol[datePos:datePos+6])
	if err != nil {
		err = fmt.Errorf("invalid expiration in symbol %s: %w", symbol, err)
		return
	}

	typePos := datePos + 6
	switch symbol[typePos] {
	case 'C':
		typ = OptionTypeCall
	case 'P':
		typ = OptionTypePut
	}

	strikeStart := typePos + 1
	strikeEnd := strikeStart + 8
	if strikeEnd > len(symbol) || !isAllDigits(symbol[strikeStart:strikeEnd]) {
		err = fmt.Errorf("invalid 8-digit strike in symbol: %s", symbol)
		return
	}
	milli, perr := strconv.ParseInt(symbol[strikeStart:strikeEnd], 10, 64)
	if perr != nil {
		err = fmt.Errorf("failed to parse strike in symbol %s: %w", symbol, perr)
		return
	}

	underlying = symbol[:datePos]
	strike = decimal.New(milli, -3)
	return
}

// isAllDigits checks if a string contains only digits.
func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
