package di

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sarulabs/di/v2"
	"github.com/solulab/nft-marketplace/internal/config"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/indexer"
	"github.com/solulab/nft-marketplace/internal/issuer"
	"github.com/solulab/nft-marketplace/internal/ledger"
	"github.com/solulab/nft-marketplace/internal/marketplace"
	"github.com/solulab/nft-marketplace/internal/messenger"
	"github.com/solulab/nft-marketplace/internal/metadata"
	"github.com/solulab/nft-marketplace/internal/repository"
	"github.com/solulab/nft-marketplace/internal/royalty"
	"github.com/solulab/nft-marketplace/internal/voucher"
	"go.uber.org/zap"
)

var definitions = []di.Def{
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().Amqp.Uri), nil
		},
	},
	{
		Name: "http.client",
		Build: func(ctn di.Container) (interface{}, error) {
			client := retryablehttp.NewClient()
			client.RetryMax = config.Get().MetadataRetries
			client.HTTPClient.Timeout = time.Duration(config.Get().MetadataTimeout) * time.Second
			client.Logger = nil

			return client, nil
		},
	},
	{
		Name: "metadata.service",
		Build: func(ctn di.Container) (interface{}, error) {
			return metadata.NewMetadataService(ctn.Get("http.client").(*retryablehttp.Client)), nil
		},
	},
	{
		Name: "royalty.registry",
		Build: func(ctn di.Container) (interface{}, error) {
			return royalty.NewRegistry(config.Get().Marketplace.Admin), nil
		},
	},
	{
		Name: "voucher.verifier",
		Build: func(ctn di.Container) (interface{}, error) {
			return voucher.NewVerifier(config.Get().Marketplace.ChainId), nil
		},
	},
	{
		Name: "issuer",
		Build: func(ctn di.Container) (interface{}, error) {
			return issuer.NewIssuer(
				config.Get().Marketplace.NftAddress,
				config.Get().Marketplace.Admin,
				ctn.Get("voucher.verifier").(voucher.Verifier),
				ctn.Get("royalty.registry").(royalty.Registry),
			), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.NewLedger(), nil
		},
	},
	{
		Name: "marketplace",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Marketplace

			return marketplace.NewService(
				marketplace.Config{
					Admin:  cfg.Admin,
					Owner:  cfg.Owner,
					Escrow: cfg.Escrow,
					FeeBps: cfg.ServiceFeeBps,
				},
				ctn.Get("issuer").(issuer.Issuer),
				ctn.Get("royalty.registry").(royalty.Registry),
				ctn.Get("ledger").(ledger.Ledger),
				ctn.Get("voucher.verifier").(voucher.Verifier),
				nil,
			), nil
		},
	},
	{
		Name: "market.item.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewMarketItemRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "market.action.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewMarketActionRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "market.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewMarketIndexer(
				ctn.Get("elastic").(elastic_search.Index),
				ctn.Get("messenger").(messenger.MessageService),
			), nil
		},
	},
	{
		Name: "metadata.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewMetadataIndexer(
				ctn.Get("elastic").(elastic_search.Index),
				ctn.Get("messenger").(messenger.MessageService),
				ctn.Get("metadata.service").(metadata.Service),
			), nil
		},
	},
}

func NewContainer() (di.Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(definitions...); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}
