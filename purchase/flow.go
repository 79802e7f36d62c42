package purchase

import (
	"fmt"
	"log"
	"sync"
	"time"

	"storefront-service/domain"
	"storefront-service/infra/metrics"
	"storefront-service/siteconfig"
)

type State string

const (
	StateBrowsing         State = "browsing"
	StatePaymentChosen    State = "payment_chosen"
	StateProcessorPending State = "processor_pending"
	StatePurchased        State = "purchased"
	StateAccessRevealed   State = "access_revealed"
)

// copiedIndicatorWindow is how long a copied wallet address stays
// marked before the indicator clears itself.
const copiedIndicatorWindow = 2 * time.Second

// Flow drives the purchase lifecycle of one (session, video) pair:
// Browsing -> PaymentChosen -> ProcessorPending -> Purchased ->
// AccessRevealed. Card and PayPal go through the processor-pending leg;
// crypto and manual contact have no confirmation channel and complete
// only on the buyer's self-report.
type Flow struct {
	State       State              `json:"state"`
	Path        domain.PaymentPath `json:"path,omitempty"`
	OrderID     string             `json:"order_id,omitempty"`
	LastError   string             `json:"last_error,omitempty"`
	CopiedIndex int                `json:"copied_index"`
}

// Controller holds every live flow in memory. Flows are ephemeral: the
// external processors are the source of truth for money, and the only
// state carried across a navigation boundary is the read-once purchase
// marker in the cache tier.
type Controller struct {
	db       domain.DatabaseInterface
	cache    domain.CacheInterface
	broker   domain.BrokerInterface
	provider *siteconfig.Provider

	mu    sync.Mutex
	flows map[string]*flowEntry
}

type flowEntry struct {
	Flow
	copiedTimer *time.Timer
}

func NewController(db domain.DatabaseInterface, cache domain.CacheInterface, broker domain.BrokerInterface, provider *siteconfig.Provider) *Controller {
	return &Controller{
		db:       db,
		cache:    cache,
		broker:   broker,
		provider: provider,
		flows:    make(map[string]*flowEntry),
	}
}

func flowKey(sessionID, videoID string) string {
	return sessionID + "|" + videoID
}

func (c *Controller) entry(sessionID, videoID string) *flowEntry {
	key := flowKey(sessionID, videoID)
	e, ok := c.flows[key]
	if !ok {
		e = &flowEntry{Flow: Flow{State: StateBrowsing, CopiedIndex: -1}}
		c.flows[key] = e
	}
	return e
}

// PaymentOptions is the policy-evaluated set of offered paths. Degenerate
// reports the case where nothing is configured: the storefront cannot
// sell anything and the admin needs to hear about it.
type PaymentOptions struct {
	Paths      []domain.PaymentPath `json:"paths"`
	Degenerate bool                 `json:"degenerate"`
}

// Options evaluates the availability policy against the current config
// snapshot: card needs the full key pair, PayPal its client ID, crypto a
// non-empty wallet list, manual contact a configured handle.
func (c *Controller) Options() PaymentOptions {
	config := c.provider.Snapshot()

	paths := make([]domain.PaymentPath, 0, 4)
	if config.StripePublishableKey != "" && config.StripeSecretKey != "" {
		paths = append(paths, domain.PathCard)
	}
	if config.PayPalClientID != "" {
		paths = append(paths, domain.PathPayPal)
	}
	if len(config.CryptoWallets) > 0 {
		paths = append(paths, domain.PathCrypto)
	}
	if config.TelegramUsername != "" {
		paths = append(paths, domain.PathManual)
	}

	if len(paths) == 0 {
		log.Printf("No payment paths configured: purchases are unreachable until the admin adds payment settings")
	}
	return PaymentOptions{Paths: paths, Degenerate: len(paths) == 0}
}

func (c *Controller) offered(path domain.PaymentPath) bool {
	for _, p := range c.Options().Paths {
		if p == path {
			return true
		}
	}
	return false
}

// ChoosePath moves the flow to PaymentChosen. Re-choosing while already
// chosen (or after a processor error) switches the path and clears the
// previous error.
func (c *Controller) ChoosePath(sessionID, videoID string, path domain.PaymentPath) (Flow, error) {
	if !c.offered(path) {
		return Flow{}, fmt.Errorf("%w: %s", domain.ErrPathNotOffered, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sessionID, videoID)
	if e.State != StateBrowsing && e.State != StatePaymentChosen {
		return e.Flow, fmt.Errorf("%w: cannot choose a payment path from %s", domain.ErrInvalidTransition, e.State)
	}

	e.State = StatePaymentChosen
	e.Path = path
	e.LastError = ""
	e.OrderID = ""
	return e.Flow, nil
}

// BeginProcessor moves a card or PayPal flow into ProcessorPending,
// recording the processor's order/session reference. Crypto and manual
// have no processor leg.
func (c *Controller) BeginProcessor(sessionID, videoID, orderID string) (Flow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sessionID, videoID)
	if e.State != StatePaymentChosen {
		return e.Flow, fmt.Errorf("%w: processor start requires a chosen path, state is %s", domain.ErrInvalidTransition, e.State)
	}
	if e.Path != domain.PathCard && e.Path != domain.PathPayPal {
		return e.Flow, fmt.Errorf("%w: %s has no processor step", domain.ErrInvalidTransition, e.Path)
	}

	e.State = StateProcessorPending
	e.OrderID = orderID
	return e.Flow, nil
}

// ProcessorConfirmed completes the pending processor leg.
func (c *Controller) ProcessorConfirmed(sessionID, videoID string) (Flow, error) {
	c.mu.Lock()
	e := c.entry(sessionID, videoID)
	if e.State != StateProcessorPending {
		defer c.mu.Unlock()
		return e.Flow, fmt.Errorf("%w: no processor call pending, state is %s", domain.ErrInvalidTransition, e.State)
	}
	e.State = StatePurchased
	e.LastError = ""
	flow := e.Flow
	c.mu.Unlock()

	c.completePurchase(sessionID, videoID, flow.Path)
	return flow, nil
}

// ProcessorFailed reverts to PaymentChosen carrying the processor's
// error message verbatim; the user retries from there.
func (c *Controller) ProcessorFailed(sessionID, videoID, processorError string) (Flow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sessionID, videoID)
	if e.State != StateProcessorPending {
		return e.Flow, fmt.Errorf("%w: no processor call pending, state is %s", domain.ErrInvalidTransition, e.State)
	}

	e.State = StatePaymentChosen
	e.LastError = processorError
	e.OrderID = ""
	return e.Flow, nil
}

// SelfReport completes a crypto or manual-contact purchase on the
// buyer's word. There is no automatic confirmation for these paths;
// reconciliation happens out of band over the contact channel.
func (c *Controller) SelfReport(sessionID, videoID string) (Flow, error) {
	c.mu.Lock()
	e := c.entry(sessionID, videoID)
	if e.State != StatePaymentChosen {
		defer c.mu.Unlock()
		return e.Flow, fmt.Errorf("%w: self-report requires a chosen path, state is %s", domain.ErrInvalidTransition, e.State)
	}
	if e.Path != domain.PathCrypto && e.Path != domain.PathManual {
		defer c.mu.Unlock()
		return e.Flow, fmt.Errorf("%w: %s confirms through the processor", domain.ErrInvalidTransition, e.Path)
	}
	e.State = StatePurchased
	flow := e.Flow
	c.mu.Unlock()

	c.completePurchase(sessionID, videoID, flow.Path)
	return flow, nil
}

// RevealAccess exposes the access artifact: the product link when the
// video has one, otherwise the instruction to use the manual contact
// channel. A missing link is a normal outcome, not an error.
func (c *Controller) RevealAccess(sessionID, videoID string) (Flow, *domain.AccessArtifact, error) {
	c.mu.Lock()
	e := c.entry(sessionID, videoID)
	if e.State != StatePurchased && e.State != StateAccessRevealed {
		defer c.mu.Unlock()
		return e.Flow, nil, fmt.Errorf("%w: access requires a completed purchase, state is %s", domain.ErrInvalidTransition, e.State)
	}
	e.State = StateAccessRevealed
	flow := e.Flow
	c.mu.Unlock()

	video, err := c.db.GetVideoByID(videoID)
	if err != nil {
		return flow, nil, err
	}

	artifact := &domain.AccessArtifact{}
	if video.ProductLink != "" {
		artifact.ProductLink = video.ProductLink
	} else {
		handle := c.provider.TelegramUsername()
		artifact.ManualNotice = "Your access will be granted manually. Please reach out on the contact channel with your purchase details."
		artifact.ContactHandle = handle
	}
	return flow, artifact, nil
}

// CopyWallet returns the address of the wallet at index and marks it
// copied; the indicator clears itself after two seconds.
func (c *Controller) CopyWallet(sessionID, videoID string, index int) (string, error) {
	wallets := domain.ParseWallets(c.provider.CryptoWallets())
	if index < 0 || index >= len(wallets) {
		return "", fmt.Errorf("%w: wallet index %d out of range", domain.ErrValidation, index)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sessionID, videoID)
	e.CopiedIndex = index
	if e.copiedTimer != nil {
		e.copiedTimer.Stop()
	}
	e.copiedTimer = time.AfterFunc(copiedIndicatorWindow, func() {
		c.mu.Lock()
		if e.CopiedIndex == index {
			e.CopiedIndex = -1
		}
		c.mu.Unlock()
	})

	return wallets[index].Address, nil
}

// Snapshot returns the current flow without mutating it.
func (c *Controller) Snapshot(sessionID, videoID string) Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(sessionID, videoID).Flow
}

// ConsumeJustPurchased reads and clears the one-shot purchase marker:
// true exactly once after a completed purchase, false forever after.
func (c *Controller) ConsumeJustPurchased(sessionID, videoID string) bool {
	consumed, err := c.cache.ConsumePurchaseMarker(sessionID, videoID)
	if err != nil {
		log.Printf("Failed to consume purchase marker for %s/%s: %v", sessionID, videoID, err)
		return false
	}
	return consumed
}

// completePurchase records the side effects of reaching Purchased: the
// read-once marker, the purchase counter, and the broker event. All are
// best effort; none can undo the purchase.
func (c *Controller) completePurchase(sessionID, videoID string, path domain.PaymentPath) {
	if err := c.cache.SetPurchaseMarker(sessionID, videoID); err != nil {
		log.Printf("Failed to set purchase marker for %s/%s: %v", sessionID, videoID, err)
	}

	metrics.PurchasesTotal.WithLabelValues(string(path)).Inc()

	if c.broker == nil {
		return
	}

	title := ""
	price := 0.0
	if video, err := c.db.GetVideoByID(videoID); err == nil {
		title = video.Title
		price = video.Price
	}

	event := domain.PurchaseEvent{
		VideoID:    videoID,
		VideoTitle: title,
		Path:       string(path),
		Price:      price,
		OccurredAt: time.Now().Format(time.RFC3339),
	}
	go func() {
		if err := c.broker.PublishPurchase(event); err != nil {
			log.Printf("Failed to publish purchase event for video %s: %v", videoID, err)
		}
	}()
}
