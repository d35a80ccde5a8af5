package entity

import (
	"fmt"
	"math/big"

	"github.com/gosimple/slug"
)

type SaleKind int

const (
	FixedPrice SaleKind = 0
	Auction    SaleKind = 1
)

func (k SaleKind) String() string {
	if k == Auction {
		return "auction"
	}
	return "fixedPrice"
}

// MarketItem is a single listing. Prices are decimal strings so that wei
// scale amounts survive JSON round trips to the index.
type MarketItem struct {
	ItemId         uint64   `json:"itemId"`
	TokenId        uint64   `json:"tokenId"`
	NftAddress     string   `json:"nftAddress"`
	Seller         string   `json:"seller"`
	BasePrice      string   `json:"basePrice"`
	ReservePrice   string   `json:"reservePrice"`
	ItemsAvailable uint64   `json:"itemsAvailable"`
	ListingTime    uint64   `json:"listingTime"`
	ExpirationTime uint64   `json:"expirationTime"`
	LazyMint       bool     `json:"lazyMint"`
	SaleKind       SaleKind `json:"saleKind"`
	Cancelled      bool     `json:"cancelled"`
}

func (m MarketItem) Slug() string {
	return CreateMarketItemSlug(m.ItemId)
}

func CreateMarketItemSlug(itemId uint64) string {
	return slug.Make(fmt.Sprintf("item-%d", itemId))
}

func (m MarketItem) BasePriceAmount() (*big.Int, bool) {
	return new(big.Int).SetString(m.BasePrice, 10)
}
