package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubItemRepo struct {
	item  *entity.MarketItem
	items []entity.MarketItem
	total int64
	err   error
}

func (s stubItemRepo) GetItem(uint64) (*entity.MarketItem, error) {
	return s.item, s.err
}

func (s stubItemRepo) GetItemsBySeller(string, int, int) ([]entity.MarketItem, int64, error) {
	return s.items, s.total, s.err
}

func (s stubItemRepo) GetActiveItems(int, int) ([]entity.MarketItem, int64, error) {
	return s.items, s.total, s.err
}

func (s stubItemRepo) GetBestItem() (*entity.MarketItem, error) {
	return s.item, s.err
}

type stubActionRepo struct {
	action  *entity.MarketAction
	actions []entity.MarketAction
	total   int64
	err     error
}

func (s stubActionRepo) GetActionsByItem(uint64, int, int) ([]entity.MarketAction, int64, error) {
	return s.actions, s.total, s.err
}

func (s stubActionRepo) GetSalesByBuyer(string, int, int) ([]entity.MarketAction, int64, error) {
	return s.actions, s.total, s.err
}

func (s stubActionRepo) GetLatestAction(uint64) (*entity.MarketAction, error) {
	return s.action, s.err
}

func get(a api, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router(a).ServeHTTP(rec, httptest.NewRequest("GET", target, nil))

	return rec
}

func TestHealthRoute(t *testing.T) {
	rec := get(api{items: stubItemRepo{}, actions: stubActionRepo{}}, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestItemRoute(t *testing.T) {
	a := api{
		items:   stubItemRepo{item: &entity.MarketItem{ItemId: 42, Seller: "0xaa"}},
		actions: stubActionRepo{},
	}

	rec := get(a, "/items/42")
	require.Equal(t, http.StatusOK, rec.Code)

	var item entity.MarketItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, uint64(42), item.ItemId)
	assert.Equal(t, "0xaa", item.Seller)
}

func TestItemRouteNotFound(t *testing.T) {
	a := api{
		items:   stubItemRepo{err: repository.ErrMarketItemNotFound},
		actions: stubActionRepo{},
	}

	rec := get(a, "/items/42")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActiveItemsRoute(t *testing.T) {
	a := api{
		items: stubItemRepo{
			items: []entity.MarketItem{{ItemId: 1}, {ItemId: 2}},
			total: 12,
		},
		actions: stubActionRepo{},
	}

	rec := get(a, "/items?size=2&page=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pagedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Total)
	assert.Equal(t, 2, resp.Size)
	assert.Equal(t, 3, resp.Page)
}

func TestActiveItemsRouteDefaultsPagination(t *testing.T) {
	a := api{items: stubItemRepo{}, actions: stubActionRepo{}}

	rec := get(a, "/items?size=5000&page=-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pagedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, defaultPageSize, resp.Size)
	assert.Equal(t, 1, resp.Page)
}

func TestBuyerSalesRoute(t *testing.T) {
	a := api{
		items: stubItemRepo{},
		actions: stubActionRepo{
			actions: []entity.MarketAction{{ItemId: 1, Action: entity.SaleAction, Buyer: "0xbb"}},
			total:   1,
		},
	}

	rec := get(a, "/buyers/0xbb/sales")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp pagedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
}

func TestLatestActionRouteNotFound(t *testing.T) {
	a := api{
		items:   stubItemRepo{},
		actions: stubActionRepo{err: repository.ErrMarketActionNotFound},
	}

	rec := get(a, "/items/7/actions/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
