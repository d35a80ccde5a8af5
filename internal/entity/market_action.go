package entity

import (
	"crypto/md5"
	"fmt"
)

type MarketAction struct {
	ItemId     uint64     `json:"itemId"`
	TokenId    uint64     `json:"tokenId"`
	NftAddress string     `json:"nftAddress"`
	Action     ActionType `json:"action"`
	Seller     string     `json:"seller"`
	Buyer      string     `json:"buyer"`
	Price      string     `json:"price"`
	Amount     uint64     `json:"amount"`
	Fee        string     `json:"fee"`
	Royalty    string     `json:"royalty"`
	Timestamp  uint64     `json:"timestamp"`
}

type ActionType string

const (
	ListingAction    ActionType = "listing"
	CancelAction     ActionType = "cancel"
	SaleAction       ActionType = "sale"
	TransferAction   ActionType = "transfer"
	ServiceFeeAction ActionType = "servicefee"
)

func (a MarketAction) Slug() string {
	return CreateMarketActionSlug(a.ItemId, a.TokenId, a.Timestamp, string(a.Action), a.Buyer)
}

func CreateMarketActionSlug(itemId, tokenId, timestamp uint64, action, buyer string) string {
	data := []byte(fmt.Sprintf("marketaction-%d-%d-%d-%s-%s", itemId, tokenId, timestamp, action, buyer))
	return fmt.Sprintf("%x", md5.Sum(data))
}
