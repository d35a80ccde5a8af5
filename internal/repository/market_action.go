package repository

import (
	"encoding/json"
	"errors"

	"github.com/olivere/elastic/v7"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/entity"
)

var (
	ErrMarketActionNotFound = errors.New("market action not found")
)

type MarketActionRepository interface {
	GetActionsByItem(itemId uint64, size, page int) ([]entity.MarketAction, int64, error)
	GetSalesByBuyer(buyer string, size, page int) ([]entity.MarketAction, int64, error)
	GetLatestAction(itemId uint64) (*entity.MarketAction, error)
}

type marketActionRepository struct {
	elastic elastic_search.Index
}

func NewMarketActionRepository(elastic elastic_search.Index) MarketActionRepository {
	return marketActionRepository{elastic}
}

func (r marketActionRepository) GetActionsByItem(itemId uint64, size, page int) ([]entity.MarketAction, int64, error) {
	from := size * (page - 1)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketActionIndex.Get()).
		Query(elastic.NewTermQuery("itemId", itemId)).
		Sort("timestamp", true).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r marketActionRepository) GetSalesByBuyer(buyer string, size, page int) ([]entity.MarketAction, int64, error) {
	from := size * (page - 1)

	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("buyer.keyword", buyer),
		elastic.NewTermQuery("action.keyword", string(entity.SaleAction)),
	)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketActionIndex.Get()).
		Query(query).
		Sort("timestamp", false).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r marketActionRepository) GetLatestAction(itemId uint64) (*entity.MarketAction, error) {
	results, err := search(r.elastic.GetClient().
		Search(elastic_search.MarketActionIndex.Get()).
		Query(elastic.NewTermQuery("itemId", itemId)).
		Sort("timestamp", false).
		Size(1))

	if err != nil {
		return nil, err
	}

	if len(results.Hits.Hits) == 0 {
		return nil, ErrMarketActionNotFound
	}

	var action entity.MarketAction
	hit := results.Hits.Hits[0]
	err = json.Unmarshal(hit.Source, &action)

	return &action, err
}

func (r marketActionRepository) findMany(results *elastic.SearchResult, err error) ([]entity.MarketAction, int64, error) {
	actions := make([]entity.MarketAction, 0)

	if err != nil {
		return actions, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var action entity.MarketAction
		if err := json.Unmarshal(hit.Source, &action); err == nil {
			actions = append(actions, action)
		}
	}

	return actions, results.TotalHits(), nil
}
