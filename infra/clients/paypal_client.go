package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-service/infra/utils"
)

// PayPalClient talks to the PayPal Orders v2 API: create an order, then
// capture it after buyer approval. Both steps can fail independently and
// the caller surfaces the error verbatim.
type PayPalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewPayPalClient(clientID string) *PayPalClient {
	baseURL := utils.GetEnv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com")
	clientSecret := utils.GetEnv("PAYPAL_CLIENT_SECRET", "")

	return &PayPalClient{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Description string      `json:"description"`
	Amount      orderAmount `json:"amount"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (p *PayPalClient) accessToken() (string, error) {
	if p.clientID == "" || p.clientSecret == "" {
		return "", fmt.Errorf("paypal credentials not configured")
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get paypal token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return token.AccessToken, nil
}

// CreateOrder creates a CAPTURE-intent order for the given amount, a
// decimal string in USD, and returns the paypal order id.
func (p *PayPalClient) CreateOrder(description, value string) (string, error) {
	token, err := p.accessToken()
	if err != nil {
		return "", err
	}

	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{
			{
				Description: description,
				Amount: orderAmount{
					CurrencyCode: "USD",
					Value:        value,
				},
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/v2/checkout/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create paypal order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", decodeError("create order", resp)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	return order.ID, nil
}

// CaptureOrder captures an approved order. A non-COMPLETED status is an
// error the purchase flow surfaces to the buyer.
func (p *PayPalClient) CaptureOrder(orderID string) error {
	token, err := p.accessToken()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", p.baseURL, orderID)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to capture paypal order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return decodeError("capture order", resp)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return fmt.Errorf("failed to decode capture response: %w", err)
	}
	if order.Status != "COMPLETED" {
		return fmt.Errorf("paypal capture returned status %s", order.Status)
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("paypal %s failed: %s", op, apiErr.Message)
	}
	return fmt.Errorf("paypal %s failed with status %d: %s", op, resp.StatusCode, string(body))
}
