package entity

import "math/big"

// NFTVoucher is a signed lazy mint authorization. It is supplied per call and
// never persisted by the marketplace; the field order matters for signing.
type NFTVoucher struct {
	TokenId    uint64 `json:"tokenId"`
	NftAmount  uint64 `json:"nftAmount"`
	Price      string `json:"price"`
	StartDate  uint64 `json:"startDate"`
	EndDate    uint64 `json:"endDate"`
	Maker      string `json:"maker"`
	NftAddress string `json:"nftAddress"`
	TokenURI   string `json:"tokenURI"`
}

func (v NFTVoucher) PriceAmount() (*big.Int, bool) {
	return new(big.Int).SetString(v.Price, 10)
}
