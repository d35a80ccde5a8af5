package royalty

import (
	"errors"
	"math/big"
	"sync"

	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/helper"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized   = errors.New("setTokenRoyalty: unauthorised access")
	ErrArityMismatch  = errors.New("setTokenRoyalty: array length mismatch")
	ErrRoyaltyTooHigh = errors.New("setTokenRoyalty: royalty more than 10 percent")
)

const (
	// Royalties are capped at 10 percent of the sale price.
	MaxRoyaltyBps  uint64 = 1000
	DefaultBps     uint64 = 250
	BpsDenominator int64  = 10000
)

type Registry interface {
	SetRoyalty(caller string, tokenId uint64, values []uint64, recipients []string) error
	GetRoyalty(tokenId uint64) (recipients []string, values []uint64)
	Has(tokenId uint64) bool
	ComputeRoyalty(tokenId uint64, salePrice *big.Int) (recipients []string, amounts []*big.Int, total *big.Int)
}

type registry struct {
	mu        sync.RWMutex
	principal string
	entries   map[uint64]royaltyEntry
}

type royaltyEntry struct {
	recipients []string
	values     []uint64
}

func NewRegistry(principal string) Registry {
	return &registry{
		principal: principal,
		entries:   map[uint64]royaltyEntry{},
	}
}

func (r *registry) SetRoyalty(caller string, tokenId uint64, values []uint64, recipients []string) error {
	if !helper.SameAddress(caller, r.principal) {
		return ErrUnauthorized
	}

	if len(values) != len(recipients) {
		return ErrArityMismatch
	}

	var total uint64
	for _, v := range values {
		total += v
	}
	if total > MaxRoyaltyBps {
		return ErrRoyaltyTooHigh
	}

	entry := royaltyEntry{
		recipients: append([]string(nil), recipients...),
		values:     append([]uint64(nil), values...),
	}

	r.mu.Lock()
	r.entries[tokenId] = entry
	r.mu.Unlock()

	zap.L().With(
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("totalBps", total),
	).Debug("RoyaltyRegistry: SetRoyalty")

	return nil
}

func (r *registry) GetRoyalty(tokenId uint64) ([]string, []uint64) {
	r.mu.RLock()
	entry, ok := r.entries[tokenId]
	r.mu.RUnlock()

	if !ok {
		return []string{entity.ZeroAddress}, []uint64{DefaultBps}
	}

	return append([]string(nil), entry.recipients...), append([]uint64(nil), entry.values...)
}

func (r *registry) Has(tokenId uint64) bool {
	r.mu.RLock()
	_, ok := r.entries[tokenId]
	r.mu.RUnlock()

	return ok
}

// ComputeRoyalty floors each split at amount = salePrice * bps / 10000.
func (r *registry) ComputeRoyalty(tokenId uint64, salePrice *big.Int) ([]string, []*big.Int, *big.Int) {
	recipients, values := r.GetRoyalty(tokenId)

	amounts := make([]*big.Int, len(values))
	total := big.NewInt(0)
	for i, bps := range values {
		amount := new(big.Int).Mul(salePrice, new(big.Int).SetUint64(bps))
		amount.Div(amount, big.NewInt(BpsDenominator))
		amounts[i] = amount
		total.Add(total, amount)
	}

	return recipients, amounts, total
}
