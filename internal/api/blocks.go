package api

import (
	"context"
	"fmt"

	"github.com/bitwatch/mempool-data/internal/model"
)

// GetBlock fetches a block by hash.
func (c *Client) GetBlock(ctx context.Context, hash string) (model.Block, error) {
	var block model.Block
	err := c.get(ctx, "block/"+hash, nil, &block)
	return block, err
}

// GetBlocks fetches the 10 most recent blocks.
func (c *Client) GetBlocks(ctx context.Context) ([]model.Block, error) {
	var blocks []model.Block
	err := c.get(ctx, "v1/blocks", nil, &blocks)
	return blocks, err
}

// GetBlocksFrom fetches 10 blocks starting at the given height, descending.
func (c *Client) GetBlocksFrom(ctx context.Context, height int64) ([]model.Block, error) {
	var blocks []model.Block
	err := c.get(ctx, fmt.Sprintf("v1/blocks/%d", height), nil, &blocks)
	return blocks, err
}

// GetBlockHashAtHeight fetches the hash of the block at the given height.
func (c *Client) GetBlockHashAtHeight(ctx context.Context, height int64) (string, error) {
	return c.getText(ctx, fmt.Sprintf("block-height/%d", height))
}

// GetBlockTipHeight fetches the height of the chain tip.
func (c *Client) GetBlockTipHeight(ctx context.Context) (int64, error) {
	return c.getInt(ctx, "blocks/tip/height")
}

// GetBlockTipHash fetches the hash of the chain tip.
func (c *Client) GetBlockTipHash(ctx context.Context) (string, error) {
	return c.getText(ctx, "blocks/tip/hash")
}
