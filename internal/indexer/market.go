package indexer

import (
	"encoding/json"
	"time"

	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/event"
	"github.com/solulab/nft-marketplace/internal/factory"
	"github.com/solulab/nft-marketplace/internal/messenger"
	"go.uber.org/zap"
)

// MarketIndexer mirrors marketplace events into the document store and onto
// the settlement queue for external consumers.
type MarketIndexer interface {
	OnItemListed(el interface{})
	OnItemCancelled(el interface{})
	OnItemSold(el interface{})
	OnNftTransferred(el interface{})
	OnServiceFeeUpdated(el interface{})
}

type marketIndexer struct {
	elastic        elastic_search.Index
	messageService messenger.MessageService
}

func NewMarketIndexer(elastic elastic_search.Index, messageService messenger.MessageService) MarketIndexer {
	i := marketIndexer{elastic, messageService}

	event.AddEventListener(event.ItemListedEvent, i.OnItemListed)
	event.AddEventListener(event.ItemCancelledEvent, i.OnItemCancelled)
	event.AddEventListener(event.ItemSoldEvent, i.OnItemSold)
	event.AddEventListener(event.NftTransferredEvent, i.OnNftTransferred)
	event.AddEventListener(event.ServiceFeeUpdatedEvent, i.OnServiceFeeUpdated)

	return i
}

func (i marketIndexer) OnItemListed(el interface{}) {
	listed := el.(event.ItemListed)

	item := entity.MarketItem{
		ItemId:         listed.ItemId,
		TokenId:        listed.TokenId,
		NftAddress:     listed.NftAddress,
		Seller:         listed.Seller,
		BasePrice:      listed.BasePrice,
		ItemsAvailable: listed.ItemsAvailable,
		ListingTime:    listed.ListingTime,
		ExpirationTime: listed.ExpirationTime,
		SaleKind:       listed.SaleKind,
	}

	i.elastic.AddIndexRequest(elastic_search.MarketItemIndex.Get(), item, elastic_search.MarketItemCreate)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(),
		factory.CreateListingAction(listed, uint64(time.Now().Unix())), elastic_search.MarketActionCreate)

	i.elastic.Persist()

	zap.L().With(zap.Uint64("itemId", listed.ItemId)).Info("MarketIndexer: Indexed listing")
}

func (i marketIndexer) OnItemCancelled(el interface{}) {
	cancelled := el.(event.ItemCancelled)

	item := entity.MarketItem{
		ItemId:     cancelled.ItemId,
		TokenId:    cancelled.TokenId,
		NftAddress: cancelled.NftAddress,
		Cancelled:  true,
	}

	i.elastic.AddUpdateRequest(elastic_search.MarketItemIndex.Get(), item, elastic_search.MarketItemCancel)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(),
		factory.CreateCancelAction(cancelled, uint64(time.Now().Unix())), elastic_search.MarketActionCreate)

	i.elastic.Persist()

	zap.L().With(zap.Uint64("itemId", cancelled.ItemId)).Info("MarketIndexer: Indexed cancellation")
}

func (i marketIndexer) OnItemSold(el interface{}) {
	sold := el.(event.ItemSold)

	item := entity.MarketItem{
		ItemId:         sold.ItemId,
		TokenId:        sold.TokenId,
		NftAddress:     sold.NftAddress,
		Seller:         sold.Seller,
		ItemsAvailable: sold.Remaining,
	}

	i.elastic.AddUpdateRequest(elastic_search.MarketItemIndex.Get(), item, elastic_search.MarketItemUpdate)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(),
		factory.CreateSaleAction(sold, uint64(time.Now().Unix())), elastic_search.MarketActionCreate)

	i.elastic.Persist()

	msgJson, _ := json.Marshal(sold)
	if err := i.messageService.SendMessage(messenger.Settlement, msgJson, false); err != nil {
		zap.L().With(zap.Error(err)).Error("MarketIndexer: Failed to queue settlement")
	}

	zap.L().With(
		zap.Uint64("itemId", sold.ItemId),
		zap.String("price", sold.Price),
	).Info("MarketIndexer: Indexed sale")
}

func (i marketIndexer) OnNftTransferred(el interface{}) {
	transferred := el.(event.NftTransferred)

	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(),
		factory.CreateTransferAction(transferred, uint64(time.Now().Unix())), elastic_search.MarketActionCreate)

	i.elastic.Persist()
}

func (i marketIndexer) OnServiceFeeUpdated(el interface{}) {
	updated := el.(event.ServiceFeeUpdated)

	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(),
		factory.CreateServiceFeeAction(updated, uint64(time.Now().Unix())), elastic_search.MarketActionCreate)

	i.elastic.Persist()

	zap.L().With(
		zap.Uint64("oldFee", updated.OldFee),
		zap.Uint64("newFee", updated.NewFee),
	).Info("MarketIndexer: Indexed service fee update")
}
