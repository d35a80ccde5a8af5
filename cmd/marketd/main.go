package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/solulab/nft-marketplace/internal/config"
	"github.com/solulab/nft-marketplace/internal/config/di"
	"github.com/solulab/nft-marketplace/internal/elastic_search"
	"github.com/solulab/nft-marketplace/internal/indexer"
	"github.com/solulab/nft-marketplace/internal/messenger"
	"github.com/solulab/nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

func main() {
	config.Init("marketd")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	elastic := container.Get("elastic").(elastic_search.Index)
	elastic.InstallMappings()

	// Constructing the indexers attaches their event listeners.
	container.Get("market.indexer")
	metadataIndexer := container.Get("metadata.indexer").(indexer.MetadataIndexer)
	messageService := container.Get("messenger").(messenger.MessageService)

	a := api{
		items:   container.Get("market.item.repo").(repository.MarketItemRepository),
		actions: container.Get("market.action.repo").(repository.MarketActionRepository),
	}

	go serve(a)
	go consumeMetadataRefresh(messageService, metadataIndexer)

	zap.L().With(zap.String("port", config.Get().HealthPort)).Info("Marketplace Started")

	select {}
}

func consumeMetadataRefresh(messageService messenger.MessageService, metadataIndexer indexer.MetadataIndexer) {
	err := messageService.ConsumeMessages(messenger.MetadataRefresh, func(msg string) {
		var token messenger.Token
		if err := json.Unmarshal([]byte(msg), &token); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to decode metadata refresh message")
			return
		}

		_, _ = metadataIndexer.RefreshMetadata(token.NftAddress, token.TokenId, token.TokenUri)
	})
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Metadata refresh consumer stopped")
	}
}

func serve(a api) {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, router(a)); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start marketplace")
	}
}

func router(a api) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	a.register(r)

	return r
}
