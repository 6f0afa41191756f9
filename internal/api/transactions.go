package api

import (
	"context"

	"github.com/bitwatch/mempool-data/internal/model"
)

// GetTransaction fetches a transaction by txid.
func (c *Client) GetTransaction(ctx context.Context, txid string) (model.Transaction, error) {
	var tx model.Transaction
	err := c.get(ctx, "tx/"+txid, nil, &tx)
	return tx, err
}

// GetTransactionStatus fetches a transaction's confirmation status.
func (c *Client) GetTransactionStatus(ctx context.Context, txid string) (model.TxStatus, error) {
	var status model.TxStatus
	err := c.get(ctx, "tx/"+txid+"/status", nil, &status)
	return status, err
}

// GetTransactionHex fetches a transaction's raw hex encoding.
func (c *Client) GetTransactionHex(ctx context.Context, txid string) (string, error) {
	return c.getText(ctx, "tx/"+txid+"/hex")
}

// PostTransaction broadcasts a raw transaction (hex-encoded) and returns the
// txid assigned by the network.
func (c *Client) PostTransaction(ctx context.Context, txHex string) (string, error) {
	return c.postText(ctx, "tx", txHex)
}
