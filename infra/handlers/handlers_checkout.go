package handlers

import (
	"log"
	"math/rand"
	"net/http"

	"storefront-service/infra/metrics"
	"storefront-service/purchase"
	"storefront-service/siteconfig"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// genericProductNames keeps card statements and processor dashboards
// free of actual video titles.
var genericProductNames = []string{
	"Premium Content",
	"Digital Product",
	"Online Service",
	"Exclusive Access",
	"Special Item",
}

// CheckoutHandler is the card-path backend helper. The processor secret
// is read from the site configuration at request time, so a missing key
// is a request-time failure, never a startup one.
type CheckoutHandler struct {
	provider *siteconfig.Provider
	flow     *purchase.Controller
}

func NewCheckoutHandler(provider *siteconfig.Provider, flow *purchase.Controller) *CheckoutHandler {
	return &CheckoutHandler{
		provider: provider,
		flow:     flow,
	}
}

type CheckoutRequest struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`

	// Optional: present when the storefront itself is the caller, so
	// the purchase flow can track the pending processor call.
	VideoID string `json:"video_id"`
}

// CreateCheckoutSession implements POST /api/create-checkout-session:
// amount in minor currency units, currency defaulting to usd, and the
// two redirect URLs. 400 on missing parameters, 500 with the underlying
// detail when the key lookup or the processor call fails.
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Amount <= 0 || req.SuccessURL == "" || req.CancelURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters: amount, success_url, cancel_url"})
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}

	_, secretKey := h.provider.StripeKeys()
	if secretKey == "" {
		metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Card processor secret key is not configured"})
		return
	}

	productName := genericProductNames[rand.Intn(len(genericProductNames))]

	sc := &client.API{}
	sc.Init(secretKey, nil)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := sc.CheckoutSessions.New(params)
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create checkout session",
			"details": err.Error(),
		})
		return
	}

	if req.VideoID != "" {
		if sessionID := c.GetString("session_id"); sessionID != "" {
			if _, err := h.flow.BeginProcessor(sessionID, req.VideoID, sess.ID); err != nil {
				log.Printf("Checkout session %s created outside a tracked flow: %v", sess.ID, err)
			}
		}
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID})
}

// Root is the liveness probe of the helper surface.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "Checkout server is running")
}
