package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-service/domain"
	"storefront-service/infra/clients"
	"storefront-service/purchase"
	"storefront-service/siteconfig"

	"github.com/gin-gonic/gin"
)

// PayPalFactory builds an order client for the configured merchant.
// Injected so tests can substitute a stub processor.
type PayPalFactory func(clientID string) domain.PayPalInterface

// PurchaseHandler exposes the purchase lifecycle of one video within
// one browsing session.
type PurchaseHandler struct {
	flow     *purchase.Controller
	db       domain.DatabaseInterface
	provider *siteconfig.Provider
	paypal   PayPalFactory
}

func NewPurchaseHandler(flow *purchase.Controller, db domain.DatabaseInterface, provider *siteconfig.Provider, paypal PayPalFactory) *PurchaseHandler {
	if paypal == nil {
		paypal = func(clientID string) domain.PayPalInterface {
			return clients.NewPayPalClient(clientID)
		}
	}
	return &PurchaseHandler{
		flow:     flow,
		db:       db,
		provider: provider,
		paypal:   paypal,
	}
}

func (h *PurchaseHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow.Options())
}

func (h *PurchaseHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow.Snapshot(c.GetString("session_id"), c.Param("id")))
}

type ChooseRequest struct {
	Path domain.PaymentPath `json:"path" binding:"required"`
}

func (h *PurchaseHandler) Choose(c *gin.Context) {
	var req ChooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment path is required"})
		return
	}

	flow, err := h.flow.ChoosePath(c.GetString("session_id"), c.Param("id"), req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// PayPalCreate runs the first leg of the two-step PayPal protocol. A
// creation failure leaves the flow at PaymentChosen with the processor's
// message passed through untouched.
func (h *PurchaseHandler) PayPalCreate(c *gin.Context) {
	sessionID := c.GetString("session_id")
	videoID := c.Param("id")

	clientID := h.provider.PayPalClientID()
	if clientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PayPal is not configured"})
		return
	}

	video, err := h.db.GetVideoByID(videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot := h.flow.Snapshot(sessionID, videoID)
	if snapshot.State != purchase.StatePaymentChosen || snapshot.Path != domain.PathPayPal {
		c.JSON(http.StatusConflict, gin.H{"error": "PayPal was not the chosen payment path"})
		return
	}

	orderID, err := h.paypal(clientID).CreateOrder(video.Title, fmt.Sprintf("%.2f", video.Price))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	flow, err := h.flow.BeginProcessor(sessionID, videoID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "state": flow.State})
}

type CaptureRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// PayPalCapture runs the second leg. A capture failure reverts to
// PaymentChosen carrying the processor's error verbatim.
func (h *PurchaseHandler) PayPalCapture(c *gin.Context) {
	sessionID := c.GetString("session_id")
	videoID := c.Param("id")

	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	clientID := h.provider.PayPalClientID()
	if clientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PayPal is not configured"})
		return
	}

	if err := h.paypal(clientID).CaptureOrder(req.OrderID); err != nil {
		flow, revertErr := h.flow.ProcessorFailed(sessionID, videoID, err.Error())
		if revertErr != nil {
			respondError(c, revertErr)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "state": flow.State})
		return
	}

	flow, err := h.flow.ProcessorConfirmed(sessionID, videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// CardConfirm completes a card checkout after the processor redirects
// back to the success URL.
func (h *PurchaseHandler) CardConfirm(c *gin.Context) {
	flow, err := h.flow.ProcessorConfirmed(c.GetString("session_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// Confirm is the self-report endpoint for the crypto and manual-contact
// paths, which have no automatic confirmation channel.
func (h *PurchaseHandler) Confirm(c *gin.Context) {
	flow, err := h.flow.SelfReport(c.GetString("session_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

// Access reveals the post-purchase artifact and consumes the read-once
// "just purchased" marker.
func (h *PurchaseHandler) Access(c *gin.Context) {
	sessionID := c.GetString("session_id")
	videoID := c.Param("id")

	flow, artifact, err := h.flow.RevealAccess(sessionID, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":          flow.State,
		"artifact":       artifact,
		"just_purchased": h.flow.ConsumeJustPurchased(sessionID, videoID),
	})
}

// Receipt downloads the purchase receipt PDF. It requires the purchase
// to have completed but works offline otherwise.
func (h *PurchaseHandler) Receipt(c *gin.Context) {
	sessionID := c.GetString("session_id")
	videoID := c.Param("id")

	_, artifact, err := h.flow.RevealAccess(sessionID, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.db.GetVideoByID(videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	receipt := purchase.NewReceipt(h.provider.SiteName(), video, artifact, time.Now())
	pdf, err := receipt.PDF()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"receipt-%s.pdf\"", videoID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type CopyWalletRequest struct {
	Index *int `json:"index" binding:"required"`
}

// CopyWallet returns one wallet address for the clipboard and marks it
// copied for the two-second indicator window.
func (h *PurchaseHandler) CopyWallet(c *gin.Context) {
	var req CopyWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet index is required"})
		return
	}

	address, err := h.flow.CopyWallet(c.GetString("session_id"), c.Param("id"), *req.Index)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":      address,
		"copied_index": *req.Index,
	})
}
