package database

import (
	"database/sql"

	"storefront-service/domain"

	"github.com/lib/pq"
)

// GetSiteConfig returns the singleton config row, or domain.ErrNotFound
// when the table is empty so callers fall back to defaults.
func (d *Database) GetSiteConfig() (*domain.SiteConfig, error) {
	config := &domain.SiteConfig{}
	query := `
		SELECT id, COALESCE(site_name, ''), COALESCE(video_list_title, ''),
		       COALESCE(paypal_client_id, ''), COALESCE(stripe_publishable_key, ''),
		       COALESCE(stripe_secret_key, ''), COALESCE(telegram_username, ''),
		       COALESCE(crypto, '{}')
		FROM site_config
		LIMIT 1
	`
	err := d.db.QueryRow(query).Scan(
		&config.ID, &config.SiteName, &config.VideoListTitle, &config.PayPalClientID,
		&config.StripePublishableKey, &config.StripeSecretKey, &config.TelegramUsername,
		pq.Array(&config.CryptoWallets),
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if config.CryptoWallets == nil {
		config.CryptoWallets = []string{}
	}
	return config, nil
}

func (d *Database) CreateSiteConfig(config *domain.SiteConfig) error {
	query := `
		INSERT INTO site_config (id, site_name, video_list_title, paypal_client_id,
		                         stripe_publishable_key, stripe_secret_key,
		                         telegram_username, crypto)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := d.db.Exec(query, config.ID, config.SiteName, config.VideoListTitle,
		config.PayPalClientID, config.StripePublishableKey, config.StripeSecretKey,
		config.TelegramUsername, pq.Array(config.CryptoWallets))
	return err
}

func (d *Database) UpdateSiteConfig(config *domain.SiteConfig) error {
	query := `
		UPDATE site_config
		SET site_name = $1, video_list_title = $2, paypal_client_id = $3,
		    stripe_publishable_key = $4, stripe_secret_key = $5,
		    telegram_username = $6, crypto = $7
		WHERE id = $8
	`
	result, err := d.db.Exec(query, config.SiteName, config.VideoListTitle,
		config.PayPalClientID, config.StripePublishableKey, config.StripeSecretKey,
		config.TelegramUsername, pq.Array(config.CryptoWallets), config.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
