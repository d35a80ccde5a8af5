package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/solulab/nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type api struct {
	items   repository.MarketItemRepository
	actions repository.MarketActionRepository
}

type pagedResponse struct {
	Elements interface{} `json:"elements"`
	Total    int64       `json:"total"`
	Size     int         `json:"size"`
	Page     int         `json:"page"`
}

func (a api) register(r *mux.Router) {
	r.HandleFunc("/items", a.activeItems).Methods("GET")
	r.HandleFunc("/items/best", a.bestItem).Methods("GET")
	r.HandleFunc("/items/{itemId:[0-9]+}", a.item).Methods("GET")
	r.HandleFunc("/items/{itemId:[0-9]+}/actions", a.itemActions).Methods("GET")
	r.HandleFunc("/items/{itemId:[0-9]+}/actions/latest", a.latestAction).Methods("GET")
	r.HandleFunc("/sellers/{address}/items", a.sellerItems).Methods("GET")
	r.HandleFunc("/buyers/{address}/sales", a.buyerSales).Methods("GET")
}

func (a api) activeItems(w http.ResponseWriter, req *http.Request) {
	size, page := pagination(req)

	items, total, err := a.items.GetActiveItems(size, page)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJson(w, pagedResponse{Elements: items, Total: total, Size: size, Page: page})
}

func (a api) bestItem(w http.ResponseWriter, req *http.Request) {
	item, err := a.items.GetBestItem()
	if err != nil {
		if errors.Is(err, repository.ErrMarketItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	writeJson(w, item)
}

func (a api) item(w http.ResponseWriter, req *http.Request) {
	itemId, _ := strconv.ParseUint(mux.Vars(req)["itemId"], 10, 64)

	item, err := a.items.GetItem(itemId)
	if err != nil {
		if errors.Is(err, repository.ErrMarketItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	writeJson(w, item)
}

func (a api) itemActions(w http.ResponseWriter, req *http.Request) {
	itemId, _ := strconv.ParseUint(mux.Vars(req)["itemId"], 10, 64)
	size, page := pagination(req)

	actions, total, err := a.actions.GetActionsByItem(itemId, size, page)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJson(w, pagedResponse{Elements: actions, Total: total, Size: size, Page: page})
}

func (a api) latestAction(w http.ResponseWriter, req *http.Request) {
	itemId, _ := strconv.ParseUint(mux.Vars(req)["itemId"], 10, 64)

	action, err := a.actions.GetLatestAction(itemId)
	if err != nil {
		if errors.Is(err, repository.ErrMarketActionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	writeJson(w, action)
}

func (a api) sellerItems(w http.ResponseWriter, req *http.Request) {
	size, page := pagination(req)

	items, total, err := a.items.GetItemsBySeller(mux.Vars(req)["address"], size, page)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJson(w, pagedResponse{Elements: items, Total: total, Size: size, Page: page})
}

func (a api) buyerSales(w http.ResponseWriter, req *http.Request) {
	size, page := pagination(req)

	sales, total, err := a.actions.GetSalesByBuyer(mux.Vars(req)["address"], size, page)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJson(w, pagedResponse{Elements: sales, Total: total, Size: size, Page: page})
}

func pagination(req *http.Request) (int, int) {
	size, err := strconv.Atoi(req.URL.Query().Get("size"))
	if err != nil || size < 1 || size > maxPageSize {
		size = defaultPageSize
	}

	page, err := strconv.Atoi(req.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return size, page
}

func writeJson(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to write response")
	}
}

func internalError(w http.ResponseWriter, err error) {
	zap.L().With(zap.Error(err)).Error("Request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
