package event

import "github.com/solulab/nft-marketplace/internal/entity"

type Type string

const (
	ItemListedEvent        Type = "ItemListedEvent"
	ItemCancelledEvent     Type = "ItemCancelledEvent"
	ItemSoldEvent          Type = "ItemSoldEvent"
	NftTransferredEvent    Type = "NftTransferredEvent"
	ServiceFeeUpdatedEvent Type = "ServiceFeeUpdatedEvent"
	NftMintedEvent         Type = "NftMintedEvent"
)

type ItemListed struct {
	Seller         string          `json:"seller"`
	NftAddress     string          `json:"nftAddress"`
	ItemId         uint64          `json:"itemId"`
	TokenId        uint64          `json:"tokenId"`
	BasePrice      string          `json:"basePrice"`
	ItemsAvailable uint64          `json:"itemsAvailable"`
	ListingTime    uint64          `json:"listingTime"`
	ExpirationTime uint64          `json:"expirationTime"`
	SaleKind       entity.SaleKind `json:"saleKind"`
}

type ItemCancelled struct {
	Admin      string `json:"admin"`
	NftAddress string `json:"nftAddress"`
	ItemId     uint64 `json:"itemId"`
	TokenId    uint64 `json:"tokenId"`
	Amount     uint64 `json:"amount"`
}

type ItemSold struct {
	ItemId     uint64 `json:"itemId"`
	Seller     string `json:"seller"`
	Buyer      string `json:"buyer"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	Price      string `json:"price"`
	Amount     uint64 `json:"amount"`
	Fee        string `json:"fee"`
	Royalty    string `json:"royalty"`
	Remaining  uint64 `json:"remaining"`
}

type NftTransferred struct {
	ItemId     uint64 `json:"itemId"`
	Seller     string `json:"seller"`
	Buyer      string `json:"buyer"`
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	Amount     uint64 `json:"amount"`
}

type ServiceFeeUpdated struct {
	Caller string `json:"caller"`
	OldFee uint64 `json:"oldFee"`
	NewFee uint64 `json:"newFee"`
}

type NftMinted struct {
	NftAddress string `json:"nftAddress"`
	TokenId    uint64 `json:"tokenId"`
	TokenUri   string `json:"tokenUri"`
	Owner      string `json:"owner"`
	Amount     uint64 `json:"amount"`
}
