package models

// ============================================================================
// TRANSACTION MODEL
// ============================================================================
// Normalized view of the raw records returned by the n8n dashboard webhook.
// The webhook owns persistence; nothing here is ever written back.
// ============================================================================

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// SupportedCurrencies is the closed set the dashboard aggregates over.
// Unknown codes coming from the webhook collapse to TRY.
var SupportedCurrencies = []Currency{CurrencyTRY, CurrencyUSD, CurrencyEUR}

// DefaultCategory is used when the webhook returns a record without one.
const DefaultCategory = "Diğer"

type Transaction struct {
	ID              string          `json:"id"`
	Amount          float64         `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	SubCategory     string          `json:"sub_category,omitempty"`
	Description     string          `json:"description"`
	Currency        Currency        `json:"currency"`
	ExchangeRate    *float64        `json:"exchange_rate,omitempty"`
	TransactionDate string          `json:"transaction_date"`
	CreatedAt       string          `json:"created_at"`
	FileURL         string          `json:"file_url,omitempty"`
}

// ============================================================================
// DASHBOARD AGGREGATES
// ============================================================================

// CurrencyStats holds per-currency totals. Balance is always income - expense.
type CurrencyStats struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// DashboardData is the full result of one pipeline run: newest-first
// transactions, one stats bucket per supported currency (present even when
// zero) and the sorted set of sub-categories seen in the data.
type DashboardData struct {
	Transactions  []Transaction              `json:"transactions"`
	Stats         map[Currency]CurrencyStats `json:"stats"`
	SubCategories []string                   `json:"sub_categories"`
}

// WeekdayStats is one bucket of the trailing-week chart. Name is the Turkish
// weekday abbreviation, Sunday first, matching the chart component.
type WeekdayStats struct {
	Name    string  `json:"name"`
	Income  float64 `json:"gelir"`
	Expense float64 `json:"gider"`
}

// CategorySlice is one slice of the expense distribution pie.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ============================================================================
// REQUESTS
// ============================================================================

type AddTransactionRequest struct {
	Text string `json:"text" binding:"required"`
}

type AIQueryRequest struct {
	Message string `json:"message" binding:"required"`
}
