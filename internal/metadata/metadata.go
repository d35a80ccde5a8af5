package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/solulab/nft-marketplace/internal/config"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/helper"
)

var ErrNoGateway = errors.New("no ipfs gateway produced a response")

type Service interface {
	FetchMetadata(tm entity.TokenMetadata) (map[string]interface{}, error)
}

type service struct {
	client *retryablehttp.Client
}

func NewMetadataService(client *retryablehttp.Client) Service {
	return service{client}
}

func (s service) FetchMetadata(tm entity.TokenMetadata) (map[string]interface{}, error) {
	metadataUri, err := tm.MetadataUri()
	if err != nil {
		return nil, err
	}

	if helper.IsIpfs(metadataUri) {
		return s.fetchIpfs(metadataUri)
	}

	return s.fetch(metadataUri)
}

// fetchIpfs walks the configured gateways until one answers.
func (s service) fetchIpfs(uri string) (map[string]interface{}, error) {
	for _, host := range config.Get().IpfsHosts {
		md, err := s.fetch(helper.ToGatewayUrl(uri, host))
		if err == nil {
			return md, nil
		}
	}

	return nil, ErrNoGateway
}

func (s service) fetch(uri string) (map[string]interface{}, error) {
	resp, err := s.client.Get(uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("metadata fetch: %s", resp.Status)
	}

	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	var md map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &md); err != nil {
		return nil, err
	}

	return md, nil
}
