// utils/safelog.go
// ============================================================================
// SAFE LOGGING - Masks financial and personal data in production
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
)

// IsProduction controls masking. In release mode, amounts, ids and contact
// data are masked before they hit the logs.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production" ||
	os.Getenv("ENV") == "production"

var (
	// Amounts with a currency marker (500 TL, ₺500, 100 USD, 50€...)
	amountWithCurrencyRegex = regexp.MustCompile(`(₺|\$|€)\s?\d+([.,]\d+)*|\b\d+([.,]\d+)*\s*(TL|TRY|USD|EUR|₺|\$|€)\b`)

	// Turkish mobile numbers (05xx xxx xx xx and +90 variants)
	phoneRegex = regexp.MustCompile(`(\+90[\s-]?|0)5\d{2}[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}`)

	// Full UUIDs get shortened to their first block
	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString masks sensitive data in a string. No-op outside production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := amountWithCurrencyRegex.ReplaceAllString(input, "***")
	result = phoneRegex.ReplaceAllString(result, "05**-***-**-**")
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})
	return result
}

// MaskAmount masks a financial amount.
func MaskAmount(amount float64) string {
	if IsProduction {
		return "***"
	}
	return fmt.Sprintf("%.2f", amount)
}

// SafeLog logs a message with sensitive data masked.
func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}
