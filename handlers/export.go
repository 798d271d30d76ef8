package handlers

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/services"
)

// ============================================================================
// CSV EXPORT
// ============================================================================
// Mirrors the export the old frontend generated in the browser: UTF-8 BOM
// so Excel recognizes Turkish characters, semicolon separator, Turkish
// headers and tr-TR formatted dates and amounts.
// ============================================================================

var csvHeaders = []string{"Tarih", "Kategori", "Açıklama", "Tutar", "Tip"}

// ExportTransactions streams the filtered transaction list as a CSV
// attachment named islemler-YYYY-MM-DD.csv.
func (h *DashboardHandler) ExportTransactions(c *gin.Context) {
	data := h.fetchDashboard(c)
	filtered := services.FilterTransactions(data.Transactions, c.Query("search"), c.Query("type"))

	filename := fmt.Sprintf("islemler-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// BOM first, before anything the csv writer emits.
	if _, err := c.Writer.WriteString("\ufeff"); err != nil {
		return
	}

	w := csv.NewWriter(c.Writer)
	w.Comma = ';'

	if err := w.Write(csvHeaders); err != nil {
		return
	}
	for _, tx := range filtered {
		if err := w.Write(csvRow(tx)); err != nil {
			return
		}
	}
	w.Flush()

	if user, ok := middleware.GetUser(c); ok {
		h.recordActivity(user, models.ActionExport, fmt.Sprintf("%d işlem", len(filtered)))
	}
}

func csvRow(tx models.Transaction) []string {
	date := "-"
	if t, ok := parseExportDate(tx.TransactionDate); ok {
		date = t.Format("02.01.2006")
	}

	sign := "-"
	typeLabel := "Gider"
	if tx.Type == models.TypeIncome {
		sign = "+"
		typeLabel = "Gelir"
	}

	return []string{
		date,
		tx.Category,
		tx.Description,
		fmt.Sprintf("%s%s TL", sign, formatAmountTR(tx.Amount)),
		typeLabel,
	}
}

func parseExportDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatAmountTR renders an amount the way tr-TR locale formatting does:
// dots group the thousands, a comma separates the decimals, and trailing
// zero decimals are omitted.
func formatAmountTR(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := strings.Join(grouped, ".")
	if negative {
		out = "-" + out
	}

	fracPart = strings.TrimRight(fracPart, "0")
	if fracPart != "" {
		out += "," + fracPart
	}
	return out
}
