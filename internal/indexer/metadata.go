package indexer

import (
	"encoding/json"

	"github.com/solulab/nft-marketplace/internal/dev"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/event"
	"github.com/solulab/nft-marketplace/internal/messenger"
	"github.com/solulab/nft-marketplace/internal/metadata"
	"go.uber.org/zap"
)

type MetadataIndexer interface {
	TriggerMetadataRefresh(el interface{})
	RefreshMetadata(nftAddress string, tokenId uint64, tokenUri string) (*entity.TokenMetadata, error)
}

type metadataIndexer struct {
	elastic         elastic_search.Index
	messageService  messenger.MessageService
	metadataService metadata.Service
}

func NewMetadataIndexer(
	elastic elastic_search.Index,
	messageService messenger.MessageService,
	metadataService metadata.Service,
) MetadataIndexer {
	i := metadataIndexer{elastic, messageService, metadataService}

	event.AddEventListener(event.NftMintedEvent, i.TriggerMetadataRefresh)

	return i
}

func (i metadataIndexer) TriggerMetadataRefresh(el interface{}) {
	minted := el.(event.NftMinted)

	if minted.TokenUri == "" {
		return
	}

	tm := entity.TokenMetadata{
		NftAddress: minted.NftAddress,
		TokenId:    minted.TokenId,
		TokenUri:   minted.TokenUri,
	}

	// Repeated mints of the same token reuse the pending document.
	if !i.elastic.HasRequest(tm) {
		i.elastic.AddIndexRequest(elastic_search.TokenMetadataIndex.Get(), tm, elastic_search.TokenMetadataCreate)
		i.elastic.Persist()
	}

	msgJson, _ := json.Marshal(messenger.Token{NftAddress: minted.NftAddress, TokenId: minted.TokenId, TokenUri: minted.TokenUri})
	if err := i.messageService.SendMessage(messenger.MetadataRefresh, msgJson, false); err != nil {
		zap.L().Error("Failed to queue metadata refresh")
	}

	zap.L().With(
		zap.String("nftAddress", minted.NftAddress),
		zap.Uint64("tokenId", minted.TokenId),
	).Info("Trigger MetaData Refresh")
}

func (i metadataIndexer) RefreshMetadata(nftAddress string, tokenId uint64, tokenUri string) (*entity.TokenMetadata, error) {
	zap.L().With(zap.String("nftAddress", nftAddress), zap.Uint64("tokenId", tokenId)).Info("Refresh Metadata")

	tm := entity.TokenMetadata{
		NftAddress: nftAddress,
		TokenId:    tokenId,
		TokenUri:   tokenUri,
		Attempted:  true,
	}

	data, err := i.metadataService.FetchMetadata(tm)
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("nftAddress", nftAddress),
			zap.Uint64("tokenId", tokenId),
			zap.String("tokenUri", tokenUri),
		).Warn("Failed to get token metadata")

		tm.Error = err.Error()
		i.elastic.AddUpdateRequest(elastic_search.TokenMetadataIndex.Get(), tm, elastic_search.TokenMetadataUpdate)
		i.elastic.AddIndexRequest(elastic_search.DevErrorIndex.Get(),
			dev.NewError("metadataIndexer", "RefreshMetadata", err, map[string]interface{}{
				"nftAddress": nftAddress,
				"tokenId":    tokenId,
			}), elastic_search.DevErrorCreate)
		i.elastic.Persist()

		return nil, err
	}

	tm.Data = data
	tm.Error = ""

	i.elastic.AddUpdateRequest(elastic_search.TokenMetadataIndex.Get(), tm, elastic_search.TokenMetadataUpdate)
	i.elastic.Persist()

	return &tm, nil
}
