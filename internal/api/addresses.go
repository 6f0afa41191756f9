package api

import (
	"context"

	"github.com/bitwatch/mempool-data/internal/model"
)

// GetAddress fetches activity statistics for an address.
func (c *Client) GetAddress(ctx context.Context, address string) (model.AddressInfo, error) {
	var info model.AddressInfo
	err := c.get(ctx, "address/"+address, nil, &info)
	return info, err
}

// GetAddressTransactions fetches an address's transaction history, newest
// first (up to 50 mempool plus 25 confirmed).
func (c *Client) GetAddressTransactions(ctx context.Context, address string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := c.get(ctx, "address/"+address+"/txs", nil, &txs)
	return txs, err
}

// GetAddressUTXO fetches an address's unspent outputs.
func (c *Client) GetAddressUTXO(ctx context.Context, address string) ([]model.UTXO, error) {
	var utxos []model.UTXO
	err := c.get(ctx, "address/"+address+"/utxo", nil, &utxos)
	return utxos, err
}
