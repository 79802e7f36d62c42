package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWallet(t *testing.T) {
	entries, err := AddWallet(nil, Wallet{Code: "BTC", Name: "Bitcoin", Address: "bc1qxyz"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"BTC - Bitcoin\nbc1qxyz"}, entries)
}

func TestAddWallet_RejectsDuplicateCode(t *testing.T) {
	entries := []string{"BTC - Bitcoin\nbc1qxyz"}

	_, err := AddWallet(entries, Wallet{Code: "BTC", Name: "Bitcoin Again", Address: "bc1qother"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddWallet_RejectsSixth(t *testing.T) {
	entries := []string{}
	codes := []string{"BTC", "ETH", "SOL", "XMR", "LTC"}
	for _, code := range codes {
		var err error
		entries, err = AddWallet(entries, Wallet{Code: code, Name: code, Address: "addr-" + code})
		assert.NoError(t, err)
	}

	_, err := AddWallet(entries, Wallet{Code: "DOGE", Name: "Dogecoin", Address: "Dxyz"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, entries, MaxCryptoWallets)
}

func TestRemoveWallet_ShiftsWithoutReordering(t *testing.T) {
	entries := []string{"a", "b", "c", "d"}

	updated, err := RemoveWallet(entries, 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, updated)
}

func TestRemoveWallet_OutOfRange(t *testing.T) {
	_, err := RemoveWallet([]string{"a"}, 3)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = RemoveWallet([]string{"a"}, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateWalletList(t *testing.T) {
	valid := []string{
		Wallet{Code: "BTC", Address: "bc1qone"}.Encode(),
		Wallet{Code: "ETH", Address: "0xabc"}.Encode(),
	}
	assert.NoError(t, ValidateWalletList(valid))
	assert.NoError(t, ValidateWalletList(nil))

	tooMany := make([]string, MaxCryptoWallets+1)
	for i := range tooMany {
		tooMany[i] = Wallet{Code: string(rune('A' + i)), Address: "addr"}.Encode()
	}
	assert.ErrorIs(t, ValidateWalletList(tooMany), ErrValidation)

	duplicated := []string{
		Wallet{Code: "BTC", Address: "bc1qone"}.Encode(),
		Wallet{Code: "BTC", Address: "bc1qtwo"}.Encode(),
	}
	assert.ErrorIs(t, ValidateWalletList(duplicated), ErrValidation)
}

func TestParseWallet_RoundTrip(t *testing.T) {
	w := Wallet{Code: "ETH", Name: "Ethereum", Address: "0xabc"}
	assert.Equal(t, w, ParseWallet(w.Encode()))
}

func TestParseWallet_MalformedEntryKept(t *testing.T) {
	w := ParseWallet("just some text")
	assert.Equal(t, "just some text", w.Code)
	assert.Equal(t, "", w.Address)
}
