package api

import (
	"context"

	"github.com/bitwatch/mempool-data/internal/model"
)

// GetRecommendedFees fetches the provider's current fee recommendations.
func (c *Client) GetRecommendedFees(ctx context.Context) (model.RecommendedFees, error) {
	var fees model.RecommendedFees
	err := c.get(ctx, "v1/fees/recommended", nil, &fees)
	return fees, err
}

// GetMempoolBlocksFee fetches the projected mempool blocks.
func (c *Client) GetMempoolBlocksFee(ctx context.Context) ([]model.MempoolBlock, error) {
	var blocks []model.MempoolBlock
	err := c.get(ctx, "v1/fees/mempool-blocks", nil, &blocks)
	return blocks, err
}

// GetMempool fetches the node's mempool summary.
func (c *Client) GetMempool(ctx context.Context) (model.MempoolInfo, error) {
	var info model.MempoolInfo
	err := c.get(ctx, "mempool", nil, &info)
	return info, err
}

// GetDifficultyAdjustment fetches retarget-epoch progress.
func (c *Client) GetDifficultyAdjustment(ctx context.Context) (model.DifficultyAdjustment, error) {
	var da model.DifficultyAdjustment
	err := c.get(ctx, "v1/difficulty-adjustment", nil, &da)
	return da, err
}

// GetPrices fetches the current exchange rates.
func (c *Client) GetPrices(ctx context.Context) (model.Prices, error) {
	var prices model.Prices
	err := c.get(ctx, "v1/prices", nil, &prices)
	return prices, err
}
