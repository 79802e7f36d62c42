package siteconfig

import (
	"errors"
	"log"
	"sync"

	"storefront-service/domain"
)

// Provider holds the single site configuration snapshot shared by every
// component. It loads once at startup and republishes on Refresh; the
// snapshot is replaced whole, never patched in place.
type Provider struct {
	db    domain.DatabaseInterface
	cache domain.CacheInterface

	mu             sync.RWMutex
	snapshot       *domain.SiteConfig
	walletFallback bool

	subMu       sync.Mutex
	subscribers []func(domain.SiteConfig)
}

func NewProvider(db domain.DatabaseInterface, cache domain.CacheInterface) *Provider {
	p := &Provider{
		db:    db,
		cache: cache,
	}
	if err := p.Refresh(); err != nil {
		log.Printf("Failed to load site config, using defaults: %v", err)
	}
	return p
}

// Refresh re-fetches the config record and republishes it to all
// subscribers. A missing record is not an error: consumers get the
// hard-coded defaults. Wallets merge-on-read across the two tiers, the
// persisted store winning whenever it has entries.
func (p *Provider) Refresh() error {
	config, err := p.db.GetSiteConfig()
	if errors.Is(err, domain.ErrNotFound) {
		config = domain.DefaultSiteConfig()
		err = nil
	}
	if err != nil {
		p.mu.Lock()
		if p.snapshot == nil {
			p.snapshot = domain.DefaultSiteConfig()
		}
		p.mu.Unlock()
		return err
	}

	applyDefaults(config)

	fromFallback := false
	if len(config.CryptoWallets) == 0 && p.cache != nil {
		fallback, cacheErr := p.cache.FallbackWallets()
		if cacheErr != nil {
			log.Printf("Failed to read fallback wallets: %v", cacheErr)
		} else if len(fallback) > 0 {
			config.CryptoWallets = fallback
			fromFallback = true
		}
	}

	p.mu.Lock()
	p.snapshot = config
	p.walletFallback = fromFallback
	p.mu.Unlock()

	p.notify()
	return nil
}

func applyDefaults(config *domain.SiteConfig) {
	if config.SiteName == "" {
		config.SiteName = domain.DefaultSiteName
	}
	if config.VideoListTitle == "" {
		config.VideoListTitle = domain.DefaultVideoListTitle
	}
	if config.CryptoWallets == nil {
		config.CryptoWallets = []string{}
	}
}

// Snapshot returns a copy of the current configuration: mutating the
// returned value never affects other readers.
func (p *Provider) Snapshot() domain.SiteConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()

	config := *p.snapshot
	config.CryptoWallets = append([]string(nil), p.snapshot.CryptoWallets...)
	return config
}

// WalletsFromFallback reports whether the displayed wallet list came
// from the local fallback tier instead of the persisted store.
func (p *Provider) WalletsFromFallback() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.walletFallback
}

func (p *Provider) SiteName() string         { return p.Snapshot().SiteName }
func (p *Provider) VideoListTitle() string   { return p.Snapshot().VideoListTitle }
func (p *Provider) PayPalClientID() string   { return p.Snapshot().PayPalClientID }
func (p *Provider) TelegramUsername() string { return p.Snapshot().TelegramUsername }
func (p *Provider) CryptoWallets() []string  { return p.Snapshot().CryptoWallets }

func (p *Provider) StripeKeys() (publishable, secret string) {
	config := p.Snapshot()
	return config.StripePublishableKey, config.StripeSecretKey
}

// Subscribe registers a callback invoked with the new snapshot on every
// Refresh.
func (p *Provider) Subscribe(fn func(domain.SiteConfig)) {
	p.subMu.Lock()
	p.subscribers = append(p.subscribers, fn)
	p.subMu.Unlock()
}

func (p *Provider) notify() {
	snapshot := p.Snapshot()

	p.subMu.Lock()
	subscribers := make([]func(domain.SiteConfig), len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.subMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
