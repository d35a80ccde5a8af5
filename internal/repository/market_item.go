package repository

import (
	"encoding/json"
	"errors"

	"github.com/olivere/elastic/v7"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/entity"
)

var (
	ErrMarketItemNotFound = errors.New("market item not found")
)

type MarketItemRepository interface {
	GetItem(itemId uint64) (*entity.MarketItem, error)
	GetItemsBySeller(seller string, size, page int) ([]entity.MarketItem, int64, error)
	GetActiveItems(size, page int) ([]entity.MarketItem, int64, error)
	GetBestItem() (*entity.MarketItem, error)
}

type marketItemRepository struct {
	elastic elastic_search.Index
}

func NewMarketItemRepository(elastic elastic_search.Index) MarketItemRepository {
	return marketItemRepository{elastic}
}

func (r marketItemRepository) GetItem(itemId uint64) (*entity.MarketItem, error) {
	pendingRequest := r.elastic.GetRequest(entity.CreateMarketItemSlug(itemId))
	if pendingRequest != nil {
		pendingItem := pendingRequest.Entity.(entity.MarketItem)
		return &pendingItem, nil
	}

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketItemIndex.Get()).
		Query(elastic.NewTermQuery("itemId", itemId)).
		Size(1))

	return r.findOne(results, err)
}

func (r marketItemRepository) GetItemsBySeller(seller string, size, page int) ([]entity.MarketItem, int64, error) {
	from := size * (page - 1)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketItemIndex.Get()).
		Query(elastic.NewTermQuery("seller.keyword", seller)).
		Sort("itemId", false).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r marketItemRepository) GetActiveItems(size, page int) ([]entity.MarketItem, int64, error) {
	from := size * (page - 1)

	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("cancelled", false),
		elastic.NewRangeQuery("itemsAvailable").Gt(0),
	)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketItemIndex.Get()).
		Query(query).
		Sort("itemId", false).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r marketItemRepository) GetBestItem() (*entity.MarketItem, error) {
	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketItemIndex.Get()).
		Query(elastic.NewTermQuery("cancelled", false)).
		Sort("itemId", true).
		Size(1))

	return r.findOne(results, err)
}

func (r marketItemRepository) findOne(results *elastic.SearchResult, err error) (*entity.MarketItem, error) {
	if err != nil {
		return nil, err
	}

	if len(results.Hits.Hits) == 0 {
		return nil, ErrMarketItemNotFound
	}

	var item entity.MarketItem
	hit := results.Hits.Hits[0]
	err = json.Unmarshal(hit.Source, &item)

	return &item, err
}

func (r marketItemRepository) findMany(results *elastic.SearchResult, err error) ([]entity.MarketItem, int64, error) {
	items := make([]entity.MarketItem, 0)

	if err != nil {
		return items, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var item entity.MarketItem
		if err := json.Unmarshal(hit.Source, &item); err == nil {
			items = append(items, item)
		}
	}

	return items, results.TotalHits(), nil
}
