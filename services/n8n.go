package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ============================================================================
// N8N WEBHOOK CLIENT
// ============================================================================
// The n8n automation platform is the system of record: it parses natural
// language entries, writes the database and serves the dashboard data. This
// client is the only way the API talks to it.
// ============================================================================

type N8NService struct {
	DashboardURL   string
	TransactionURL string
	ChatbotURL     string
	Client         *http.Client
}

func NewN8NService(dashboardURL, transactionURL, chatbotURL string, timeout time.Duration) *N8NService {
	return &N8NService{
		DashboardURL:   strings.TrimSpace(dashboardURL),
		TransactionURL: strings.TrimSpace(transactionURL),
		ChatbotURL:     strings.TrimSpace(chatbotURL),
		Client:         &http.Client{Timeout: timeout},
	}
}

// FetchDashboardRaw pulls the raw dashboard payload. The body comes back
// undecoded; shape resolution is the pipeline's job, not the transport's.
func (s *N8NService) FetchDashboardRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.DashboardURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dashboard webhook status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dashboard webhook read: %w", err)
	}
	return body, nil
}

// AddTransaction forwards a natural-language entry ("Ahmet'e 500 TL mazot
// parası verdim") to the transaction workflow. Any 2xx counts as success
// unless the body explicitly says otherwise; n8n sometimes replies with an
// empty or non-JSON body on success.
func (s *N8NService) AddTransaction(ctx context.Context, text string) error {
	payload := map[string]string{
		"text":      text,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", s.TransactionURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("transaction webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("transaction webhook status %d", resp.StatusCode)
	}

	respBody, _ := io.ReadAll(resp.Body)
	var result struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err == nil {
		if result.Error != "" {
			return fmt.Errorf("transaction webhook: %s", result.Error)
		}
		if result.Success != nil && !*result.Success {
			return fmt.Errorf("transaction webhook rejected the entry")
		}
	}

	return nil
}

// AIQuery sends a chat message to the analyst workflow. The workflow has
// answered in several formats over time; all known ones are handled.
func (s *N8NService) AIQuery(ctx context.Context, message string) (string, error) {
	payload := map[string]string{"chatInput": message}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", s.ChatbotURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chatbot webhook status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chatbot webhook read: %w", err)
	}

	// Known formats: { text: "...", success: true }, { output: "..." },
	// and whatever legacy workflows send (passed through verbatim).
	var result struct {
		Text    *string `json:"text"`
		Output  *string `json:"output"`
		Success *bool   `json:"success"`
	}
	if err := json.Unmarshal(respBody, &result); err == nil {
		if result.Text != nil {
			if result.Success != nil && !*result.Success {
				return "", fmt.Errorf("chatbot workflow reported failure")
			}
			return *result.Text, nil
		}
		if result.Output != nil {
			return *result.Output, nil
		}
	}

	return string(respBody), nil
}
