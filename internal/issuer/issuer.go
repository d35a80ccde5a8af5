package issuer

import (
	"errors"
	"math/big"
	"sync"

	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/event"
	"github.com/solulab/nft-marketplace/internal/helper"
	"github.com/solulab/nft-marketplace/internal/royalty"
	"github.com/solulab/nft-marketplace/internal/voucher"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized        = errors.New("setCreator: unauthorised access")
	ErrUnauthorizedSigner  = errors.New("redeem: unauthorized signer")
	ErrSupplyExceeded      = errors.New("redeem: max token supply exceeded")
	ErrInsufficientBalance = errors.New("transfer: insufficient balance")
)

// Issuer owns the per token creator, supply cap, minted supply, uri and
// balance records. Only the registered marketplace principal may mutate them.
type Issuer interface {
	Address() string

	SetCreator(caller string, tokenId uint64, creator string) error
	SetMaxTokens(caller string, tokenId uint64, max uint64) error
	Redeem(caller string, buyer string, v entity.NFTVoucher, amount uint64, signature []byte) (uint64, error)
	Transfer(caller string, from string, to string, tokenId uint64, amount uint64) error

	RoyaltyInfo(tokenId uint64, salePrice *big.Int) (recipients []string, amounts []*big.Int, total *big.Int)

	GetCreator(tokenId uint64) string
	GetMaxTokens(tokenId uint64) uint64
	TotalSupply(tokenId uint64) uint64
	BalanceOf(owner string, tokenId uint64) uint64
	URI(tokenId uint64) string
}

type issuer struct {
	mu sync.RWMutex

	address   string
	principal string
	verifier  voucher.Verifier
	registry  royalty.Registry

	creators  map[uint64]string
	maxTokens map[uint64]uint64
	minted    map[uint64]uint64
	uris      map[uint64]string
	balances  map[uint64]map[string]uint64
}

func NewIssuer(address, principal string, verifier voucher.Verifier, registry royalty.Registry) Issuer {
	return &issuer{
		address:   helper.NormaliseAddress(address),
		principal: principal,
		verifier:  verifier,
		registry:  registry,
		creators:  map[uint64]string{},
		maxTokens: map[uint64]uint64{},
		minted:    map[uint64]uint64{},
		uris:      map[uint64]string{},
		balances:  map[uint64]map[string]uint64{},
	}
}

func (i *issuer) Address() string {
	return i.address
}

func (i *issuer) SetCreator(caller string, tokenId uint64, creator string) error {
	if !helper.SameAddress(caller, i.principal) {
		return ErrUnauthorized
	}

	i.mu.Lock()
	i.creators[tokenId] = helper.NormaliseAddress(creator)
	i.mu.Unlock()

	return nil
}

func (i *issuer) SetMaxTokens(caller string, tokenId uint64, max uint64) error {
	if !helper.SameAddress(caller, i.principal) {
		return ErrUnauthorized
	}

	i.mu.Lock()
	i.maxTokens[tokenId] = max
	i.mu.Unlock()

	return nil
}

// Redeem mints amount units of the voucher's token to buyer once the voucher
// signature has been proven to come from the claimed maker.
func (i *issuer) Redeem(caller string, buyer string, v entity.NFTVoucher, amount uint64, signature []byte) (uint64, error) {
	if !helper.SameAddress(caller, i.principal) {
		return 0, ErrUnauthorized
	}

	signer, err := i.verifier.RecoverSigner(v, signature)
	if err != nil {
		return 0, err
	}

	if !helper.SameAddress(signer, v.Maker) {
		zap.L().With(
			zap.Uint64("tokenId", v.TokenId),
			zap.String("signer", signer),
			zap.String("maker", v.Maker),
		).Warn("TokenIssuer: voucher signer mismatch")
		return 0, ErrUnauthorizedSigner
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// A cap of zero has never blocked minting; only an explicit positive cap
	// is enforced.
	if max := i.maxTokens[v.TokenId]; max > 0 && i.minted[v.TokenId]+amount > max {
		return 0, ErrSupplyExceeded
	}

	if _, ok := i.creators[v.TokenId]; !ok {
		i.creators[v.TokenId] = helper.NormaliseAddress(v.Maker)
	}

	// First redemption wins the uri; later vouchers cannot overwrite it.
	if _, ok := i.uris[v.TokenId]; !ok {
		i.uris[v.TokenId] = v.TokenURI
	}

	if i.balances[v.TokenId] == nil {
		i.balances[v.TokenId] = map[string]uint64{}
	}
	i.balances[v.TokenId][helper.NormaliseAddress(buyer)] += amount
	i.minted[v.TokenId] += amount

	zap.L().With(
		zap.Uint64("tokenId", v.TokenId),
		zap.String("buyer", buyer),
		zap.Uint64("amount", amount),
	).Info("TokenIssuer: Redeemed voucher")

	event.EmitEvent(event.NftMintedEvent, event.NftMinted{
		NftAddress: i.address,
		TokenId:    v.TokenId,
		TokenUri:   i.uris[v.TokenId],
		Owner:      helper.NormaliseAddress(buyer),
		Amount:     amount,
	})

	return v.TokenId, nil
}

func (i *issuer) Transfer(caller string, from string, to string, tokenId uint64, amount uint64) error {
	if !helper.SameAddress(caller, i.principal) {
		return ErrUnauthorized
	}

	from = helper.NormaliseAddress(from)
	to = helper.NormaliseAddress(to)

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.balances[tokenId] == nil {
		i.balances[tokenId] = map[string]uint64{}
	}

	if i.balances[tokenId][from] < amount {
		return ErrInsufficientBalance
	}

	i.balances[tokenId][from] -= amount
	i.balances[tokenId][to] += amount

	return nil
}

// RoyaltyInfo differs from the raw registry default by substituting the
// recorded creator into the 250bps split once one is known.
func (i *issuer) RoyaltyInfo(tokenId uint64, salePrice *big.Int) ([]string, []*big.Int, *big.Int) {
	recipients, amounts, total := i.registry.ComputeRoyalty(tokenId, salePrice)

	if !i.registry.Has(tokenId) {
		if creator := i.GetCreator(tokenId); creator != entity.ZeroAddress {
			recipients = []string{creator}
		}
	}

	return recipients, amounts, total
}

func (i *issuer) GetCreator(tokenId uint64) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if creator, ok := i.creators[tokenId]; ok {
		return creator
	}
	return entity.ZeroAddress
}

func (i *issuer) GetMaxTokens(tokenId uint64) uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.maxTokens[tokenId]
}

func (i *issuer) TotalSupply(tokenId uint64) uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.minted[tokenId]
}

func (i *issuer) BalanceOf(owner string, tokenId uint64) uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.balances[tokenId][helper.NormaliseAddress(owner)]
}

func (i *issuer) URI(tokenId uint64) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.uris[tokenId]
}
