package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a six digit numeric code drawn uniformly from
// [100000, 999999] using crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
)

// Slugify lowercases value, turns whitespace runs into '-' and drops anything
// that is not a word character or '-'.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// UniqueSlug appends the creation time in unix millis so titles may repeat.
func UniqueSlug(value string, at time.Time) string {
	return fmt.Sprintf("%s-%d", Slugify(value), at.UnixMilli())
}

// NormalizeEmail trims and lowercases an address. Accounts, codes and
// subscribers are all stored and looked up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
