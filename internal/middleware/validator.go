package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	customerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	currencyPattern   = regexp.MustCompile(`^[A-Z]{3}$`)
	artifactIDPattern = regexp.MustCompile(`^[A-Z0-9_]+-\d{8}-[A-F0-9]{8}$`)
)

// ValidateCustomerID validates customer identifier format
func ValidateCustomerID(id string) error {
	if id == "" {
		return fmt.Errorf("customer_id cannot be empty")
	}
	if !customerIDPattern.MatchString(id) {
		return fmt.Errorf("invalid customer_id format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateTransactionID validates transaction identifier format
func ValidateTransactionID(id string) error {
	if id == "" {
		return fmt.Errorf("transaction_id cannot be empty")
	}
	if !customerIDPattern.MatchString(id) {
		return fmt.Errorf("invalid transaction_id format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateCurrency validates an ISO-4217 style currency code
func ValidateCurrency(code string) error {
	if code == "" {
		return nil // defaults to USD upstream
	}
	if !currencyPattern.MatchString(code) {
		return fmt.Errorf("invalid currency: %s (expected 3-letter uppercase code)", code)
	}
	return nil
}

// ValidateAmount rejects non-positive transaction amounts
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidateArtifactID validates the {PREFIX}-{yyyyMMdd}-{8-hex} identifier
// format used for stored artifacts.
func ValidateArtifactID(id string) error {
	if id == "" {
		return fmt.Errorf("artifact id cannot be empty")
	}
	if !artifactIDPattern.MatchString(id) {
		return fmt.Errorf("invalid artifact id format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
