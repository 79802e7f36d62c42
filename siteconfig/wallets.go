package siteconfig

import (
	"errors"
	"fmt"
	"log"

	"storefront-service/domain"

	"github.com/google/uuid"
)

// WalletRepository is the two-tier store for crypto wallet edits: the
// site_config row is the primary, the cache is the client-local
// fallback. Edits that cannot land in the primary go to the fallback so
// they are never silently discarded; the primary wins again on the next
// successful write.
type WalletRepository struct {
	db       domain.DatabaseInterface
	cache    domain.CacheInterface
	provider *Provider
}

func NewWalletRepository(db domain.DatabaseInterface, cache domain.CacheInterface, provider *Provider) *WalletRepository {
	return &WalletRepository{
		db:       db,
		cache:    cache,
		provider: provider,
	}
}

// Add validates against the currently displayed list (whichever tier it
// came from) and writes the grown list back.
func (r *WalletRepository) Add(wallet domain.Wallet) ([]string, error) {
	current := r.provider.CryptoWallets()

	updated, err := domain.AddWallet(current, wallet)
	if err != nil {
		return nil, err
	}

	if err := r.write(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove drops the entry at index. The write goes to the persisted
// store whenever it holds the displayed list, otherwise to the fallback
// tier the list came from.
func (r *WalletRepository) Remove(index int) ([]string, error) {
	current := r.provider.CryptoWallets()

	updated, err := domain.RemoveWallet(current, index)
	if err != nil {
		return nil, err
	}

	if r.provider.WalletsFromFallback() {
		if err := r.cache.SetFallbackWallets(updated); err != nil {
			return nil, fmt.Errorf("failed to update fallback wallets: %w", err)
		}
		if err := r.provider.Refresh(); err != nil {
			log.Printf("Failed to refresh site config after wallet edit: %v", err)
		}
		return updated, nil
	}

	if err := r.write(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// write targets the primary store first. A primary failure demotes the
// edit to the fallback cache instead of dropping it.
func (r *WalletRepository) write(entries []string) error {
	if err := r.writePrimary(entries); err != nil {
		log.Printf("Primary wallet write failed, caching locally: %v", err)
		if cacheErr := r.cache.SetFallbackWallets(entries); cacheErr != nil {
			return fmt.Errorf("wallet write failed on both tiers: %v (fallback: %w)", err, cacheErr)
		}
	} else if clearErr := r.cache.ClearFallbackWallets(); clearErr != nil {
		log.Printf("Failed to clear fallback wallets: %v", clearErr)
	}

	if err := r.provider.Refresh(); err != nil {
		log.Printf("Failed to refresh site config after wallet edit: %v", err)
	}
	return nil
}

func (r *WalletRepository) writePrimary(entries []string) error {
	config, err := r.db.GetSiteConfig()
	if errors.Is(err, domain.ErrNotFound) {
		config = domain.DefaultSiteConfig()
		config.ID = uuid.New().String()
		config.CryptoWallets = entries
		return r.db.CreateSiteConfig(config)
	}
	if err != nil {
		return err
	}

	// Update a copy so a failed write never leaks the new entries into
	// a *SiteConfig the store may hand back again.
	updated := *config
	updated.CryptoWallets = entries
	return r.db.UpdateSiteConfig(&updated)
}
