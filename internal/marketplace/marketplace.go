package marketplace

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/event"
	"github.com/solulab/nft-marketplace/internal/helper"
	"github.com/solulab/nft-marketplace/internal/issuer"
	"github.com/solulab/nft-marketplace/internal/ledger"
	"github.com/solulab/nft-marketplace/internal/royalty"
	"github.com/solulab/nft-marketplace/internal/voucher"
	"go.uber.org/zap"
)

var (
	ErrAdminOnly = errors.New("Only admin can perform this action")
	ErrOwnerOnly = errors.New("Ownable: caller is not the owner")

	ErrZeroPrice            = errors.New("listItem: Price cannot be zero")
	ErrZeroAddress          = errors.New("listItem: nft address is zero")
	ErrZeroAmount           = errors.New("listItem: nft amount is zero")
	ErrInvalidExpiration    = errors.New("listItem: Expiration date invalid")
	ErrInvalidListingTime   = errors.New("listItem: listing time invalid")
	ErrInvalidAuctionAmount = errors.New("listItem: invalid nft amount")

	ErrCancelUnauthorized = errors.New("cancelListing: Unauthorized access")

	ErrNotEnoughStock  = errors.New("buyItem: Not enough tokens on sale")
	ErrNotFixedPrice   = errors.New("buyItem: Not on fixed price sale")
	ErrSaleExpired     = errors.New("buyItem: Sale expired")
	ErrSaleNotStarted  = errors.New("buyItem: Sale not started")
	ErrSellerCannotBuy = errors.New("buyItem: seller itself cannot buy")

	ErrOfferNotEnoughStock = errors.New("claimOffer: Not enough tokens on sale")
	ErrNotValidForAuction  = errors.New("accetedOffer: not valid for auction sale")
	ErrUnauthorizedSigner  = errors.New("claimOffer: unauthorized signer")

	ErrNotAuction      = errors.New("claimNFT: Not an auction listing")
	ErrAuctionNotEnded = errors.New("claimNFT: Auction has not ended yet")
	ErrInvalidBuyer    = errors.New("claimNFT: Invalid buyer address")

	ErrInvalidToken = errors.New("getRoyalty: invalid nft address")

	ErrFeeExceedsPrice = errors.New("settle: fee and royalties exceed sale price")
)

// Sellers get five minutes of clock drift on the listing time.
const listingGraceSeconds = 300

type Clock func() time.Time

// Listing carries the caller-supplied fields of a new market item. The itemId
// and seller are assigned by the service.
type Listing struct {
	TokenId        uint64
	NftAddress     string
	BasePrice      string
	ReservePrice   string
	ItemsAvailable uint64
	ListingTime    uint64
	ExpirationTime uint64
	LazyMint       bool
	SaleKind       entity.SaleKind
}

type Service interface {
	ListItem(seller string, maxCopies uint64, data Listing, values []uint64, recipients []string) (uint64, error)
	CancelListing(caller string, itemId uint64) error
	BuyItem(caller string, itemId uint64, amount uint64, v entity.NFTVoucher, signature []byte, buyer string) error
	ClaimOffer(caller string, itemId uint64, buyer string, amount uint64, v entity.NFTVoucher, signature []byte) error
	ClaimNFT(caller string, itemId uint64, buyer string, v entity.NFTVoucher, signature []byte) error
	SetServiceFee(caller string, newFee uint64) error

	GetRoyalty(nftAddress string, tokenId uint64) ([]string, []uint64, error)
	GetItem(itemId uint64) (entity.MarketItem, bool)
	GetItemCount() uint64
	GetServiceFeeRate() uint64
}

type Config struct {
	Admin  string
	Owner  string
	Escrow string
	FeeBps uint64
}

type service struct {
	cfg      Config
	issuer   issuer.Issuer
	registry royalty.Registry
	ledger   ledger.Ledger
	verifier voucher.Verifier
	clock    Clock

	mu     sync.Mutex
	items  map[uint64]entity.MarketItem
	locks  map[uint64]*sync.Mutex
	nextId uint64
	feeBps uint64
}

func NewService(cfg Config, iss issuer.Issuer, registry royalty.Registry, ldg ledger.Ledger, ver voucher.Verifier, clock Clock) Service {
	if clock == nil {
		clock = time.Now
	}

	return &service{
		cfg:      cfg,
		issuer:   iss,
		registry: registry,
		ledger:   ldg,
		verifier: ver,
		clock:    clock,
		items:    map[uint64]entity.MarketItem{},
		locks:    map[uint64]*sync.Mutex{},
		feeBps:   cfg.FeeBps,
	}
}

func (s *service) ListItem(seller string, maxCopies uint64, data Listing, values []uint64, recipients []string) (uint64, error) {
	price, ok := new(big.Int).SetString(data.BasePrice, 10)
	if !ok || price.Sign() <= 0 {
		return 0, ErrZeroPrice
	}
	if !helper.IsAddress(data.NftAddress) || helper.SameAddress(data.NftAddress, entity.ZeroAddress) {
		return 0, ErrZeroAddress
	}
	if data.ItemsAvailable == 0 {
		return 0, ErrZeroAmount
	}
	if data.ExpirationTime <= data.ListingTime {
		return 0, ErrInvalidExpiration
	}
	if data.ListingTime+listingGraceSeconds < uint64(s.clock().Unix()) {
		return 0, ErrInvalidListingTime
	}
	if data.SaleKind == entity.Auction && data.ItemsAvailable != 1 {
		return 0, ErrInvalidAuctionAmount
	}

	if len(values) > 0 || len(recipients) > 0 {
		if err := s.registry.SetRoyalty(s.cfg.Admin, data.TokenId, values, recipients); err != nil {
			return 0, err
		}
	}
	if maxCopies > 0 {
		if err := s.issuer.SetMaxTokens(s.cfg.Admin, data.TokenId, maxCopies); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	s.nextId++
	item := entity.MarketItem{
		ItemId:         s.nextId,
		TokenId:        data.TokenId,
		NftAddress:     helper.NormaliseAddress(data.NftAddress),
		Seller:         helper.NormaliseAddress(seller),
		BasePrice:      data.BasePrice,
		ReservePrice:   data.ReservePrice,
		ItemsAvailable: data.ItemsAvailable,
		ListingTime:    data.ListingTime,
		ExpirationTime: data.ExpirationTime,
		LazyMint:       data.LazyMint,
		SaleKind:       data.SaleKind,
	}
	s.items[item.ItemId] = item
	s.mu.Unlock()

	zap.L().With(
		zap.Uint64("itemId", item.ItemId),
		zap.Uint64("tokenId", item.TokenId),
		zap.String("seller", item.Seller),
		zap.String("saleKind", item.SaleKind.String()),
	).Info("Marketplace: Listed item")

	event.EmitEvent(event.ItemListedEvent, event.ItemListed{
		Seller:         item.Seller,
		NftAddress:     item.NftAddress,
		ItemId:         item.ItemId,
		TokenId:        item.TokenId,
		BasePrice:      item.BasePrice,
		ItemsAvailable: item.ItemsAvailable,
		ListingTime:    item.ListingTime,
		ExpirationTime: item.ExpirationTime,
		SaleKind:       item.SaleKind,
	})

	return item.ItemId, nil
}

func (s *service) CancelListing(caller string, itemId uint64) error {
	lock := s.itemLock(itemId)
	lock.Lock()
	defer lock.Unlock()

	if !helper.SameAddress(caller, s.cfg.Admin) {
		return ErrCancelUnauthorized
	}

	item := s.item(itemId)

	s.deleteItem(itemId)

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("caller", caller),
	).Info("Marketplace: Cancelled listing")

	event.EmitEvent(event.ItemCancelledEvent, event.ItemCancelled{
		Admin:      helper.NormaliseAddress(caller),
		NftAddress: item.NftAddress,
		ItemId:     itemId,
		TokenId:    item.TokenId,
		Amount:     item.ItemsAvailable,
	})

	return nil
}

// BuyItem settles an admin mediated fixed price purchase. The price is paid
// off system, so only the token moves; Sold is emitted with a zero price.
func (s *service) BuyItem(caller string, itemId uint64, amount uint64, v entity.NFTVoucher, signature []byte, buyer string) error {
	if !helper.SameAddress(caller, s.cfg.Admin) {
		return ErrAdminOnly
	}

	lock := s.itemLock(itemId)
	lock.Lock()
	defer lock.Unlock()

	item := s.item(itemId)

	if amount > item.ItemsAvailable {
		return ErrNotEnoughStock
	}
	if item.SaleKind != entity.FixedPrice {
		return ErrNotFixedPrice
	}

	now := uint64(s.clock().Unix())
	if now > item.ExpirationTime {
		return ErrSaleExpired
	}
	if now < item.ListingTime {
		return ErrSaleNotStarted
	}
	if helper.SameAddress(buyer, item.Seller) {
		return ErrSellerCannotBuy
	}

	if item.LazyMint {
		if !helper.SameAddress(v.Maker, item.Seller) {
			return issuer.ErrUnauthorizedSigner
		}
		if _, err := s.issuer.Redeem(s.cfg.Admin, buyer, v, amount, signature); err != nil {
			return err
		}
	} else {
		if err := s.issuer.Transfer(s.cfg.Admin, item.Seller, buyer, item.TokenId, amount); err != nil {
			return err
		}
	}

	s.decrementStock(itemId, amount)

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("buyer", buyer),
		zap.Uint64("amount", amount),
	).Info("Marketplace: Item bought")

	event.EmitEvent(event.ItemSoldEvent, event.ItemSold{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Price:      "0",
		Amount:     amount,
		Fee:        "0",
		Royalty:    "0",
		Remaining:  item.ItemsAvailable - amount,
	})
	event.EmitEvent(event.NftTransferredEvent, event.NftTransferred{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Amount:     amount,
	})

	return nil
}

// ClaimOffer settles an accepted offer on a fixed price listing, moving
// voucher.price x amount through the escrow account.
func (s *service) ClaimOffer(caller string, itemId uint64, buyer string, amount uint64, v entity.NFTVoucher, signature []byte) error {
	if !helper.SameAddress(caller, s.cfg.Admin) {
		return ErrAdminOnly
	}

	lock := s.itemLock(itemId)
	lock.Lock()
	defer lock.Unlock()

	item := s.item(itemId)

	if amount > item.ItemsAvailable {
		return ErrOfferNotEnoughStock
	}
	if item.SaleKind != entity.FixedPrice {
		return ErrNotValidForAuction
	}
	if !helper.SameAddress(v.Maker, item.Seller) {
		return ErrUnauthorizedSigner
	}
	if err := s.verifyVoucher(item, v, signature, amount); err != nil {
		return err
	}

	unitPrice, ok := v.PriceAmount()
	if !ok {
		return ErrZeroPrice
	}
	total := new(big.Int).Mul(unitPrice, new(big.Int).SetUint64(amount))

	fee, royaltyTotal, err := s.settle(item, buyer, total)
	if err != nil {
		return err
	}

	if item.LazyMint {
		if _, err := s.issuer.Redeem(s.cfg.Admin, buyer, v, amount, signature); err != nil {
			return err
		}
	} else {
		if err := s.issuer.Transfer(s.cfg.Admin, item.Seller, buyer, item.TokenId, amount); err != nil {
			return err
		}
	}

	s.decrementStock(itemId, amount)

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("buyer", buyer),
		zap.Uint64("amount", amount),
		zap.String("price", total.String()),
	).Info("Marketplace: Offer claimed")

	event.EmitEvent(event.ItemSoldEvent, event.ItemSold{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Price:      total.String(),
		Amount:     amount,
		Fee:        fee.String(),
		Royalty:    royaltyTotal.String(),
		Remaining:  item.ItemsAvailable - amount,
	})
	event.EmitEvent(event.NftTransferredEvent, event.NftTransferred{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Amount:     amount,
	})

	return nil
}

// ClaimNFT hands the single auctioned unit to the winning buyer once the
// auction window has closed.
func (s *service) ClaimNFT(caller string, itemId uint64, buyer string, v entity.NFTVoucher, signature []byte) error {
	if !helper.SameAddress(caller, s.cfg.Admin) {
		return ErrAdminOnly
	}

	lock := s.itemLock(itemId)
	lock.Lock()
	defer lock.Unlock()

	item := s.item(itemId)

	if item.SaleKind != entity.Auction || item.ItemsAvailable == 0 {
		return ErrNotAuction
	}
	if uint64(s.clock().Unix()) <= item.ExpirationTime {
		return ErrAuctionNotEnded
	}
	if buyer == "" || helper.SameAddress(buyer, entity.ZeroAddress) {
		return ErrInvalidBuyer
	}
	if !helper.SameAddress(v.Maker, item.Seller) {
		return ErrUnauthorizedSigner
	}
	if err := s.verifyVoucher(item, v, signature, 1); err != nil {
		return err
	}

	unitPrice, ok := v.PriceAmount()
	if !ok {
		return ErrZeroPrice
	}

	fee, royaltyTotal, err := s.settle(item, buyer, unitPrice)
	if err != nil {
		return err
	}

	if item.LazyMint {
		if _, err := s.issuer.Redeem(s.cfg.Admin, buyer, v, 1, signature); err != nil {
			return err
		}
	} else {
		if err := s.issuer.Transfer(s.cfg.Admin, item.Seller, buyer, item.TokenId, 1); err != nil {
			return err
		}
	}

	s.deleteItem(itemId)

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("buyer", buyer),
		zap.String("price", unitPrice.String()),
	).Info("Marketplace: Auction claimed")

	event.EmitEvent(event.ItemSoldEvent, event.ItemSold{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Price:      unitPrice.String(),
		Amount:     1,
		Fee:        fee.String(),
		Royalty:    royaltyTotal.String(),
		Remaining:  0,
	})
	event.EmitEvent(event.NftTransferredEvent, event.NftTransferred{
		ItemId:     itemId,
		Seller:     item.Seller,
		Buyer:      helper.NormaliseAddress(buyer),
		NftAddress: item.NftAddress,
		TokenId:    item.TokenId,
		Amount:     1,
	})

	return nil
}

func (s *service) SetServiceFee(caller string, newFee uint64) error {
	if !helper.SameAddress(caller, s.cfg.Owner) {
		return ErrOwnerOnly
	}

	s.mu.Lock()
	oldFee := s.feeBps
	s.feeBps = newFee
	s.mu.Unlock()

	zap.L().With(
		zap.Uint64("oldFee", oldFee),
		zap.Uint64("newFee", newFee),
	).Info("Marketplace: Service fee updated")

	event.EmitEvent(event.ServiceFeeUpdatedEvent, event.ServiceFeeUpdated{
		Caller: helper.NormaliseAddress(caller),
		OldFee: oldFee,
		NewFee: newFee,
	})

	return nil
}

func (s *service) GetRoyalty(nftAddress string, tokenId uint64) ([]string, []uint64, error) {
	if !helper.IsAddress(nftAddress) || helper.SameAddress(nftAddress, entity.ZeroAddress) {
		return nil, nil, ErrInvalidToken
	}
	if !helper.SameAddress(nftAddress, s.issuer.Address()) {
		return nil, nil, ErrInvalidToken
	}

	recipients, values := s.registry.GetRoyalty(tokenId)

	return recipients, values, nil
}

func (s *service) GetItem(itemId uint64) (entity.MarketItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemId]

	return item, ok
}

func (s *service) GetItemCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nextId
}

func (s *service) GetServiceFeeRate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.feeBps
}

// verifyVoucher recovers the voucher signer and pre-checks the mint supply
// cap so a redeem after settlement cannot fail on authorization or supply.
func (s *service) verifyVoucher(item entity.MarketItem, v entity.NFTVoucher, signature []byte, amount uint64) error {
	signer, err := s.verifier.RecoverSigner(v, signature)
	if err != nil {
		return err
	}
	if !helper.SameAddress(signer, v.Maker) {
		return ErrUnauthorizedSigner
	}

	if item.LazyMint {
		if max := s.issuer.GetMaxTokens(v.TokenId); max > 0 && s.issuer.TotalSupply(v.TokenId)+amount > max {
			return issuer.ErrSupplyExceeded
		}
	}

	return nil
}

// settle distributes total from the escrow account: service fee to the admin,
// royalty split to its recipients, remainder to the seller. Zero address
// royalty recipients fold back into the seller's remainder.
func (s *service) settle(item entity.MarketItem, buyer string, total *big.Int) (*big.Int, *big.Int, error) {
	fee := new(big.Int).Mul(total, new(big.Int).SetUint64(s.GetServiceFeeRate()))
	fee.Div(fee, big.NewInt(royalty.BpsDenominator))

	recipients, amounts, _ := s.issuer.RoyaltyInfo(item.TokenId, total)

	remainder := new(big.Int).Sub(total, fee)
	payouts := []ledger.Payout{{To: s.cfg.Admin, Amount: fee}}

	royaltyTotal := big.NewInt(0)
	for i, recipient := range recipients {
		if helper.SameAddress(recipient, entity.ZeroAddress) {
			continue
		}
		payouts = append(payouts, ledger.Payout{To: recipient, Amount: amounts[i]})
		remainder.Sub(remainder, amounts[i])
		royaltyTotal.Add(royaltyTotal, amounts[i])
	}

	if remainder.Sign() < 0 {
		zap.L().With(
			zap.Uint64("itemId", item.ItemId),
			zap.String("total", total.String()),
			zap.String("fee", fee.String()),
			zap.String("royalty", royaltyTotal.String()),
		).Error("Marketplace: fee and royalties exceed sale price")
		return nil, nil, ErrFeeExceedsPrice
	}

	payouts = append(payouts, ledger.Payout{To: item.Seller, Amount: remainder})

	if err := s.ledger.Settle(s.cfg.Escrow, payouts); err != nil {
		zap.L().With(
			zap.Uint64("itemId", item.ItemId),
			zap.String("buyer", buyer),
			zap.String("total", total.String()),
			zap.Error(err),
		).Error("Marketplace: settlement failed")
		return nil, nil, err
	}

	return fee, royaltyTotal, nil
}

// item returns the zero value for unknown ids so precondition checks behave
// like reads of a deleted record.
func (s *service) item(itemId uint64) entity.MarketItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items[itemId]
}

func (s *service) decrementStock(itemId, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemId]
	if !ok {
		return
	}

	item.ItemsAvailable -= amount
	if item.ItemsAvailable == 0 {
		delete(s.items, itemId)
		return
	}
	s.items[itemId] = item
}

func (s *service) deleteItem(itemId uint64) {
	s.mu.Lock()
	delete(s.items, itemId)
	s.mu.Unlock()
}

func (s *service) itemLock(itemId uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[itemId]; !ok {
		s.locks[itemId] = &sync.Mutex{}
	}

	return s.locks[itemId]
}
