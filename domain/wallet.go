package domain

import (
	"fmt"
	"strings"
)

// MaxCryptoWallets caps the wallet list carried by SiteConfig.
const MaxCryptoWallets = 5

// Wallet is one crypto payment destination. It is serialized into the
// config document as the two-line string "CODE - Name\naddress".
type Wallet struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (w Wallet) Encode() string {
	name := w.Name
	if name == "" {
		name = w.Code
	}
	return fmt.Sprintf("%s - %s\n%s", w.Code, name, w.Address)
}

// ParseWallet decodes the two-line entry format. Entries that do not
// split cleanly keep whatever text is there so a malformed entry is
// still shown, never dropped.
func ParseWallet(entry string) Wallet {
	header, address, _ := strings.Cut(entry, "\n")
	code, name, found := strings.Cut(header, " - ")
	if !found {
		name = code
	}
	return Wallet{
		Code:    strings.TrimSpace(code),
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
	}
}

func ParseWallets(entries []string) []Wallet {
	wallets := make([]Wallet, 0, len(entries))
	for _, entry := range entries {
		wallets = append(wallets, ParseWallet(entry))
	}
	return wallets
}

// AddWallet appends an encoded entry, rejecting a 6th wallet and
// duplicate currency codes (matched against each entry's code prefix).
func AddWallet(entries []string, w Wallet) ([]string, error) {
	if w.Code == "" || w.Address == "" {
		return nil, fmt.Errorf("%w: wallet code and address are required", ErrValidation)
	}
	if len(entries) >= MaxCryptoWallets {
		return nil, fmt.Errorf("%w: maximum of %d crypto wallets allowed", ErrValidation, MaxCryptoWallets)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry, w.Code) {
			return nil, fmt.Errorf("%w: a wallet for %s already exists", ErrValidation, w.Code)
		}
	}
	updated := make([]string, 0, len(entries)+1)
	updated = append(updated, entries...)
	return append(updated, w.Encode()), nil
}

// ValidateWalletList applies the same cap and duplicate-code rules as
// AddWallet to a list written wholesale, so a bulk config save cannot
// bypass them.
func ValidateWalletList(entries []string) error {
	if len(entries) > MaxCryptoWallets {
		return fmt.Errorf("%w: maximum of %d crypto wallets allowed", ErrValidation, MaxCryptoWallets)
	}
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		code := ParseWallet(entry).Code
		if code == "" {
			continue
		}
		if seen[code] {
			return fmt.Errorf("%w: a wallet for %s already exists", ErrValidation, code)
		}
		seen[code] = true
	}
	return nil
}

// RemoveWallet removes the entry at index, shifting later entries down
// without reordering the rest.
func RemoveWallet(entries []string, index int) ([]string, error) {
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: wallet index %d out of range", ErrValidation, index)
	}
	updated := make([]string, 0, len(entries)-1)
	updated = append(updated, entries[:index]...)
	return append(updated, entries[index+1:]...), nil
}
