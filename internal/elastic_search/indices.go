package elastic_search

import (
	"fmt"

	"github.com/solulab/nft-marketplace/internal/config"
)

type Indices string

var (
	MarketItemIndex    Indices = "marketitem"
	MarketActionIndex  Indices = "marketaction"
	TokenMetadataIndex Indices = "tokenmetadata"
	DevErrorIndex      Indices = "deverror"
)

// Sets the network and returns the full string
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}
