package services

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/globaltripmarket/finance-api/models"
)

// ============================================================================
// DASHBOARD PIPELINE
// ============================================================================
// Raw webhook payload -> DashboardData in one synchronous pass:
// resolve the record array, normalize each record, aggregate. Everything in
// this file is a pure function; the same payload always produces the same
// DashboardData. Bad records are dropped silently (expected noise from the
// automation side), a bad payload yields an empty but well-formed result.
// ============================================================================

// serializationArtifact shows up in descriptions when the n8n workflow
// stringifies an object instead of a field. Such records are garbage.
const serializationArtifact = "[object Object]"

// BuildDashboard runs the full pipeline on a raw webhook response body.
func BuildDashboard(raw []byte) models.DashboardData {
	return Aggregate(NormalizeRecords(ResolveTransactions(raw)))
}

// EmptyDashboard returns the well-formed zero result used when the fetch
// itself fails. Indistinguishable from "no transactions yet" on purpose.
func EmptyDashboard() models.DashboardData {
	return Aggregate(nil)
}

// ============================================================================
// 1. RESPONSE SHAPE RESOLVER
// ============================================================================

// ResolveTransactions locates the raw transaction array inside whatever the
// webhook returned. n8n has shipped (at least) five response shapes over
// time; they are tried in fixed priority order, most specific first, so a
// wrapped structure is never misread as a bare array. No match means an
// empty list, never an error.
func ResolveTransactions(raw []byte) []map[string]any {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	// Shape 1: [{ data: [{ transactions: [...] }] }]
	if arr, ok := payload.([]any); ok && len(arr) > 0 {
		if recs := transactionsFromDataWrapper(arr[0]); recs != nil {
			return recs
		}
	}

	// Shape 2: { data: [{ transactions: [...] }] }
	if recs := transactionsFromDataWrapper(payload); recs != nil {
		return recs
	}

	// Shape 3: { transactions: [...] }
	if obj, ok := payload.(map[string]any); ok {
		if recs := recordArray(obj["transactions"]); recs != nil {
			return recs
		}
	}

	// Shape 4: bare array of transaction-like objects
	if arr, ok := payload.([]any); ok && len(arr) > 0 {
		if first, ok := arr[0].(map[string]any); ok {
			if _, hasID := first["id"]; hasID {
				if recs := recordArray(payload); recs != nil {
					return recs
				}
			}
		}
	}

	// Shape 5: [{ transactions: [...] }]
	if arr, ok := payload.([]any); ok && len(arr) > 0 {
		if first, ok := arr[0].(map[string]any); ok {
			if recs := recordArray(first["transactions"]); recs != nil {
				return recs
			}
		}
	}

	return nil
}

// transactionsFromDataWrapper handles the { data: [{ transactions: [...] }] }
// envelope shared by shapes 1 and 2.
func transactionsFromDataWrapper(v any) []map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	data, ok := obj["data"].([]any)
	if !ok || len(data) == 0 {
		return nil
	}
	inner, ok := data[0].(map[string]any)
	if !ok {
		return nil
	}
	return recordArray(inner["transactions"])
}

func recordArray(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	records := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil
	}
	return records
}

// ============================================================================
// 2. RECORD VALIDATOR / NORMALIZER
// ============================================================================

// NormalizeRecords converts the loosely-typed webhook records into the
// strict Transaction model, dropping the ones that fail validation.
func NormalizeRecords(records []map[string]any) []models.Transaction {
	txs := make([]models.Transaction, 0, len(records))
	for _, rec := range records {
		if tx, ok := normalizeRecord(rec); ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

// normalizeRecord validates and coerces one raw record. The false return is
// a silent rejection, not an error: empty or artifact-bearing descriptions
// and non-positive or unparsable amounts are expected upstream noise.
func normalizeRecord(rec map[string]any) (models.Transaction, bool) {
	description := stringField(rec, "description")
	if description == "" || strings.Contains(description, serializationArtifact) {
		return models.Transaction{}, false
	}

	amount, ok := floatField(rec, "amount")
	if !ok || amount <= 0 {
		return models.Transaction{}, false
	}

	txType := models.TypeExpense
	if stringField(rec, "type") == string(models.TypeIncome) {
		txType = models.TypeIncome
	}

	category := stringField(rec, "category")
	if category == "" {
		category = models.DefaultCategory
	}

	createdAt := stringField(rec, "created_at")
	txDate := stringField(rec, "transaction_date")
	if txDate == "" {
		txDate = datePortion(createdAt)
	}

	tx := models.Transaction{
		ID:              stringField(rec, "id"),
		Amount:          amount,
		Type:            txType,
		Category:        category,
		SubCategory:     stringField(rec, "sub_category"),
		Description:     description,
		Currency:        normalizeCurrency(stringField(rec, "currency")),
		TransactionDate: txDate,
		CreatedAt:       createdAt,
		FileURL:         stringField(rec, "file_url"),
	}

	if rate, ok := floatField(rec, "exchange_rate"); ok {
		tx.ExchangeRate = &rate
	}

	return tx, true
}

// normalizeCurrency enforces the closed three-currency world: anything that
// is not USD or EUR is treated as lira, including absent or unknown codes.
func normalizeCurrency(code string) models.Currency {
	switch models.Currency(code) {
	case models.CurrencyUSD, models.CurrencyEUR:
		return models.Currency(code)
	default:
		return models.CurrencyTRY
	}
}

// stringField reads a field that may arrive as a string or a JSON number.
// Numeric ids are stringified the way the old frontend did.
func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// floatField reads a numeric field that may arrive string-encoded.
func floatField(rec map[string]any, key string) (float64, bool) {
	switch v := rec[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// datePortion extracts the UTC calendar day from a creation timestamp.
func datePortion(timestamp string) string {
	t, ok := parseWhen(timestamp)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// parseWhen accepts the timestamp flavors the webhook has been seen to emit.
func parseWhen(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ============================================================================
// 3. AGGREGATOR
// ============================================================================

// Aggregate sorts the transactions newest first and computes the
// per-currency totals plus the sub-category set. All three currency buckets
// are always present, even at zero, so the UI never has to nil-check.
func Aggregate(txs []models.Transaction) models.DashboardData {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)

	// Stable keeps the original webhook order for exact date ties.
	sort.SliceStable(sorted, func(i, j int) bool {
		return effectiveTime(sorted[i]).After(effectiveTime(sorted[j]))
	})

	stats := make(map[models.Currency]models.CurrencyStats, len(models.SupportedCurrencies))
	for _, c := range models.SupportedCurrencies {
		stats[c] = models.CurrencyStats{}
	}

	subSet := make(map[string]struct{})
	for _, tx := range sorted {
		bucket := stats[tx.Currency]
		if tx.Type == models.TypeIncome {
			bucket.Income += tx.Amount
		} else {
			bucket.Expense += tx.Amount
		}
		stats[tx.Currency] = bucket

		if tx.SubCategory != "" {
			subSet[tx.SubCategory] = struct{}{}
		}
	}

	// Balance is derived once at the end, not incrementally.
	for c, bucket := range stats {
		bucket.Balance = bucket.Income - bucket.Expense
		stats[c] = bucket
	}

	subCategories := make([]string, 0, len(subSet))
	for s := range subSet {
		subCategories = append(subCategories, s)
	}
	sort.Strings(subCategories)

	return models.DashboardData{
		Transactions:  sorted,
		Stats:         stats,
		SubCategories: subCategories,
	}
}

// effectiveTime is the sort key: the explicit transaction date when it
// parses, otherwise the creation timestamp, otherwise the zero time (which
// sinks the record to the bottom of the newest-first list).
func effectiveTime(tx models.Transaction) time.Time {
	if t, ok := parseWhen(tx.TransactionDate); ok {
		return t
	}
	if t, ok := parseWhen(tx.CreatedAt); ok {
		return t
	}
	return time.Time{}
}

// ============================================================================
// 4. DERIVED CHART VIEWS
// ============================================================================

// Turkish weekday abbreviations, Sunday first, as the weekly chart expects.
var weekdayNames = [7]string{"Paz", "Pzt", "Sal", "Çar", "Per", "Cum", "Cmt"}

// pieColors is the fixed palette the expense pie cycles through by rank.
var pieColors = [5]string{"#f97316", "#3b82f6", "#10b981", "#8b5cf6", "#ec4899"}

// WeeklyStats buckets the trailing week (a flat 7x24h window back from now,
// not calendar-day aligned) into weekday income/expense pairs. Only lira
// transactions are counted; mixing currencies in one bar chart would be
// meaningless. All 7 buckets are returned even when empty.
func WeeklyStats(txs []models.Transaction, now time.Time) []models.WeekdayStats {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var buckets [7]models.WeekdayStats
	for _, tx := range txs {
		if tx.Currency != models.CurrencyTRY {
			continue
		}
		when, ok := transactionTime(tx)
		if !ok || when.Before(weekAgo) {
			continue
		}
		day := int(when.Weekday()) // Sunday = 0
		if tx.Type == models.TypeIncome {
			buckets[day].Income += tx.Amount
		} else {
			buckets[day].Expense += tx.Amount
		}
	}

	result := make([]models.WeekdayStats, 7)
	for i := range buckets {
		buckets[i].Name = weekdayNames[i]
		result[i] = buckets[i]
	}
	return result
}

// ExpenseDistribution sums lira expenses per category and keeps the top 5,
// colored by rank. Smaller categories are dropped outright, not folded into
// an "other" slice; the pie mirrors what the old dashboard showed.
func ExpenseDistribution(txs []models.Transaction) []models.CategorySlice {
	totals := make(map[string]float64)
	for _, tx := range txs {
		if tx.Type != models.TypeExpense || tx.Currency != models.CurrencyTRY {
			continue
		}
		category := tx.Category
		if category == "" {
			category = models.DefaultCategory
		}
		totals[category] += tx.Amount
	}

	slices := make([]models.CategorySlice, 0, len(totals))
	for name, value := range totals {
		slices = append(slices, models.CategorySlice{Name: name, Value: value})
	}

	// Descending by total; name breaks ties so reruns stay deterministic.
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Name < slices[j].Name
	})

	if len(slices) > 5 {
		slices = slices[:5]
	}
	for i := range slices {
		slices[i].Color = pieColors[i%len(pieColors)]
	}
	return slices
}

// transactionTime is the chart-facing date: explicit transaction date first,
// then creation timestamp.
func transactionTime(tx models.Transaction) (time.Time, bool) {
	if t, ok := parseWhen(tx.TransactionDate); ok {
		return t, true
	}
	return parseWhen(tx.CreatedAt)
}

// ============================================================================
// LIST FILTERING
// ============================================================================

// FilterTransactions applies the transactions-page filters: a case-
// insensitive substring search over description and category, and an
// optional INCOME/EXPENSE type filter.
func FilterTransactions(txs []models.Transaction, search, txType string) []models.Transaction {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if txType != "" && txType != "all" && string(tx.Type) != txType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
