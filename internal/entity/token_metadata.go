package entity

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
)

// TokenMetadata is the resolved document behind a redeemed token's URI.
type TokenMetadata struct {
	NftAddress string      `json:"nftAddress"`
	TokenId    uint64      `json:"tokenId"`
	TokenUri   string      `json:"tokenUri"`
	Attempted  bool        `json:"attempted"`
	Error      string      `json:"error"`
	Data       interface{} `json:"data"`
}

func (t TokenMetadata) Slug() string {
	return CreateTokenMetadataSlug(t.TokenId, t.NftAddress)
}

func CreateTokenMetadataSlug(tokenId uint64, nftAddress string) string {
	return slug.Make(fmt.Sprintf("tokenmeta-%d-%s", tokenId, nftAddress))
}

func (t TokenMetadata) MetadataUri() (string, error) {
	if t.TokenUri == "" {
		return "", errors.New("token has no uri")
	}
	return t.TokenUri, nil
}
