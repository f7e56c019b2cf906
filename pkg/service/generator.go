package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// ShortCodeLength is the maximum length of a derived short code.
const ShortCodeLength = 7

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var hexRegex = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// ConversionResult is the outcome of converting a hex identifier to base 62.
// Digits is only meaningful when OK is true.
type ConversionResult struct {
	Digits string
	OK     bool
	Reason string
}

// NormalizeIdentifier returns raw unchanged when it is already a hex string,
// otherwise the lowercase hex SHA-256 digest of raw.
func NormalizeIdentifier(raw string) string {
	if hexRegex.MatchString(raw) {
		return raw
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ToBase62 converts a hex encoded non-negative integer of any size into base 62,
// most significant digit first. big.Int uses the same 0-9a-zA-Z digit order.
func ToBase62(hexStr string) ConversionResult {
	if !hexRegex.MatchString(hexStr) {
		return ConversionResult{Reason: fmt.Sprintf("not a hexadecimal numeral: %q", hexStr)}
	}
	n, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		return ConversionResult{Reason: fmt.Sprintf("not a hexadecimal numeral: %q", hexStr)}
	}
	return ConversionResult{Digits: n.Text(62), OK: true}
}

// FromBase62 parses a base 62 string produced by ToBase62 back into an integer.
func FromBase62(encoded string) (*big.Int, error) {
	if encoded == "" {
		return nil, fmt.Errorf("empty base62 string")
	}
	for i, char := range encoded {
		if !strings.ContainsRune(base62Chars, char) {
			return nil, fmt.Errorf("invalid character '%c' at position %d in base62 string", char, i)
		}
	}
	n, ok := new(big.Int).SetString(encoded, 62)
	if !ok {
		return nil, fmt.Errorf("invalid base62 string %q", encoded)
	}
	return n, nil
}

// DeriveShortCode turns a normalized hex identifier into a short code. When the
// base 62 conversion fails the hex identifier itself is truncated instead, so a
// create request never fails on conversion. The second return value reports
// whether that fallback was taken.
func DeriveShortCode(hexID string) (string, bool) {
	res := ToBase62(hexID)
	if !res.OK {
		return truncate(hexID, ShortCodeLength), true
	}
	return truncate(res.Digits, ShortCodeLength), false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

