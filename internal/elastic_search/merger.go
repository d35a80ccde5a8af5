package elastic_search

import (
	"github.com/solulab/nft-marketplace/internal/entity"
	"go.uber.org/zap"
)

func mergeRequests(index string, cached Request, action RequestAction, e entity.Entity) entity.Entity {
	switch {
	case index == MarketActionIndex.Get():
		return cached.Entity.(entity.MarketAction)

	case index == MarketItemIndex.Get():
		result := cached.Entity.(entity.MarketItem)
		if action == MarketItemUpdate {
			result.ItemsAvailable = e.(entity.MarketItem).ItemsAvailable
		}
		if action == MarketItemCancel {
			result.ItemsAvailable = e.(entity.MarketItem).ItemsAvailable
			result.Cancelled = e.(entity.MarketItem).Cancelled
		}
		return result

	case index == TokenMetadataIndex.Get():
		result := cached.Entity.(entity.TokenMetadata)
		if action == TokenMetadataUpdate {
			result.Attempted = e.(entity.TokenMetadata).Attempted
			result.Error = e.(entity.TokenMetadata).Error
			result.Data = e.(entity.TokenMetadata).Data
		}
		return result
	}

	zap.L().Fatal("Failed to merge request")
	return nil
}
