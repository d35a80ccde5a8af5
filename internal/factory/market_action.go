package factory

import (
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/event"
)

func CreateListingAction(listed event.ItemListed, timestamp uint64) entity.MarketAction {
	return entity.MarketAction{
		ItemId:     listed.ItemId,
		TokenId:    listed.TokenId,
		NftAddress: listed.NftAddress,
		Action:     entity.ListingAction,
		Seller:     listed.Seller,
		Price:      listed.BasePrice,
		Amount:     listed.ItemsAvailable,
		Timestamp:  timestamp,
	}
}

func CreateCancelAction(cancelled event.ItemCancelled, timestamp uint64) entity.MarketAction {
	return entity.MarketAction{
		ItemId:     cancelled.ItemId,
		TokenId:    cancelled.TokenId,
		NftAddress: cancelled.NftAddress,
		Action:     entity.CancelAction,
		Seller:     cancelled.Admin,
		Amount:     cancelled.Amount,
		Timestamp:  timestamp,
	}
}

func CreateSaleAction(sold event.ItemSold, timestamp uint64) entity.MarketAction {
	return entity.MarketAction{
		ItemId:     sold.ItemId,
		TokenId:    sold.TokenId,
		NftAddress: sold.NftAddress,
		Action:     entity.SaleAction,
		Seller:     sold.Seller,
		Buyer:      sold.Buyer,
		Price:      sold.Price,
		Amount:     sold.Amount,
		Fee:        sold.Fee,
		Royalty:    sold.Royalty,
		Timestamp:  timestamp,
	}
}

func CreateTransferAction(transferred event.NftTransferred, timestamp uint64) entity.MarketAction {
	return entity.MarketAction{
		ItemId:     transferred.ItemId,
		TokenId:    transferred.TokenId,
		NftAddress: transferred.NftAddress,
		Action:     entity.TransferAction,
		Seller:     transferred.Seller,
		Buyer:      transferred.Buyer,
		Amount:     transferred.Amount,
		Timestamp:  timestamp,
	}
}

func CreateServiceFeeAction(updated event.ServiceFeeUpdated, timestamp uint64) entity.MarketAction {
	return entity.MarketAction{
		Action:    entity.ServiceFeeAction,
		Seller:    updated.Caller,
		Amount:    updated.NewFee,
		Timestamp: timestamp,
	}
}
