package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/services"
	"github.com/globaltripmarket/finance-api/utils"
)

// ============================================================================
// DASHBOARD HANDLER
// ============================================================================

type DashboardHandler struct {
	N8N   *services.N8NService
	Users *services.UserService // nil when DATABASE_URL is not set
}

func NewDashboardHandler(n8n *services.N8NService, users *services.UserService) *DashboardHandler {
	return &DashboardHandler{N8N: n8n, Users: users}
}

// GetDashboard runs the full pipeline against a fresh webhook fetch and
// returns the aggregates plus both chart views. An upstream failure turns
// into an empty, well-formed response, never an error status: the UI treats
// "no data" and "upstream down" the same way.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	data := h.fetchDashboard(c)
	c.JSON(http.StatusOK, gin.H{
		"transactions":         data.Transactions,
		"stats":                data.Stats,
		"sub_categories":       data.SubCategories,
		"weekly":               services.WeeklyStats(data.Transactions, time.Now()),
		"expense_distribution": services.ExpenseDistribution(data.Transactions),
		"fetched_at":           time.Now().Format(time.RFC3339),
	})
}

// GetTransactions returns the normalized list with the transactions-page
// filters applied (?search=, ?type=INCOME|EXPENSE|all).
func (h *DashboardHandler) GetTransactions(c *gin.Context) {
	data := h.fetchDashboard(c)
	filtered := services.FilterTransactions(data.Transactions, c.Query("search"), c.Query("type"))
	c.JSON(http.StatusOK, gin.H{
		"transactions": filtered,
		"total":        len(filtered),
	})
}

// AddTransaction forwards a natural-language entry to the n8n workflow,
// which parses and persists it.
func (h *DashboardHandler) AddTransaction(c *gin.Context) {
	var req models.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	utils.SafeLog("📝 New transaction entry: %s", req.Text)

	if err := h.N8N.AddTransaction(c.Request.Context(), req.Text); err != nil {
		log.Printf("❌ Transaction entry failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "İşlem kaydedilemedi. Lütfen tekrar deneyin."})
		return
	}

	if user, ok := middleware.GetUser(c); ok {
		h.recordActivity(user, models.ActionTransactionAdd, req.Text)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AIQuery proxies the analyst chat to the n8n chatbot workflow.
func (h *DashboardHandler) AIQuery(c *gin.Context) {
	var req models.AIQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.N8N.AIQuery(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("❌ AI query failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI bağlantısı kurulamadı. Lütfen tekrar deneyin."})
		return
	}

	if user, ok := middleware.GetUser(c); ok {
		h.recordActivity(user, models.ActionAIQuery, "")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "output": output})
}

// fetchDashboard is the shared fetch+pipeline step. Failures degrade to the
// empty result.
func (h *DashboardHandler) fetchDashboard(c *gin.Context) models.DashboardData {
	raw, err := h.N8N.FetchDashboardRaw(c.Request.Context())
	if err != nil {
		log.Printf("❌ Dashboard data fetch failed: %v", err)
		return services.EmptyDashboard()
	}
	return services.BuildDashboard(raw)
}

func (h *DashboardHandler) recordActivity(user models.SessionUser, action, detail string) {
	if h.Users == nil {
		return
	}
	if err := h.Users.RecordActivity(user, action, detail); err != nil {
		log.Printf("⚠️ Failed to record %s activity: %v", action, err)
	}
}
