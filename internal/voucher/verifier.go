package voucher

import (
	"context"
	"errors"
	"math/big"

	"github.com/hyperledger/firefly-signer/pkg/eip712"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/solulab/nft-marketplace/internal/entity"
	"go.uber.org/zap"
)

// The signing domain must match the one wallets signed against bit for bit,
// otherwise recovery yields an unrelated address.
const (
	SigningDomainName    = "SOLULAB"
	SigningDomainVersion = "1"
)

var (
	ErrInvalidSignature = errors.New("voucher: invalid signature")
	ErrInvalidPrice     = errors.New("voucher: price is not a valid amount")
)

var voucherType = eip712.Type{
	{Name: "tokenId", Type: "uint256"},
	{Name: "nftAmount", Type: "uint256"},
	{Name: "price", Type: "uint256"},
	{Name: "startDate", Type: "uint256"},
	{Name: "endDate", Type: "uint256"},
	{Name: "maker", Type: "address"},
	{Name: "nftAddress", Type: "address"},
	{Name: "tokenURI", Type: "string"},
}

type Verifier interface {
	RecoverSigner(v entity.NFTVoucher, signature []byte) (string, error)
}

type verifier struct {
	chainId int64
}

func NewVerifier(chainId int64) Verifier {
	return verifier{chainId: chainId}
}

func (ver verifier) RecoverSigner(v entity.NFTVoucher, signature []byte) (string, error) {
	encoded, err := encodeTypedData(v, ver.chainId)
	if err != nil {
		return "", err
	}

	sig, err := secp256k1.DecodeCompactRSV(context.Background(), signature)
	if err != nil {
		zap.L().With(zap.Error(err)).Debug("VoucherVerifier: malformed signature")
		return "", ErrInvalidSignature
	}

	addr, err := sig.RecoverDirect(encoded, ver.chainId)
	if err != nil {
		zap.L().With(zap.Error(err)).Debug("VoucherVerifier: recovery failed")
		return "", ErrInvalidSignature
	}

	return addr.String(), nil
}

// Sign produces the compact R||S||V signature a wallet would have produced for
// the voucher. Used by the CLI tooling and tests.
func Sign(v entity.NFTVoucher, chainId int64, privateKey []byte) ([]byte, error) {
	kp, err := secp256k1.NewSecp256k1KeyPair(privateKey)
	if err != nil {
		return nil, err
	}

	return SignWithKeyPair(v, chainId, kp)
}

func SignWithKeyPair(v entity.NFTVoucher, chainId int64, kp *secp256k1.KeyPair) ([]byte, error) {
	encoded, err := encodeTypedData(v, chainId)
	if err != nil {
		return nil, err
	}

	sig, err := kp.SignDirect(encoded)
	if err != nil {
		return nil, err
	}

	return sig.CompactRSV(), nil
}

func encodeTypedData(v entity.NFTVoucher, chainId int64) ([]byte, error) {
	price, ok := v.PriceAmount()
	if !ok {
		return nil, ErrInvalidPrice
	}

	payload := &eip712.TypedData{
		Types: eip712.TypeSet{
			"NFTVoucher": voucherType,
			eip712.EIP712Domain: {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		PrimaryType: "NFTVoucher",
		Domain: map[string]interface{}{
			"name":              SigningDomainName,
			"version":           SigningDomainVersion,
			"chainId":           big.NewInt(chainId),
			"verifyingContract": v.NftAddress,
		},
		Message: map[string]interface{}{
			"tokenId":    new(big.Int).SetUint64(v.TokenId),
			"nftAmount":  new(big.Int).SetUint64(v.NftAmount),
			"price":      price,
			"startDate":  new(big.Int).SetUint64(v.StartDate),
			"endDate":    new(big.Int).SetUint64(v.EndDate),
			"maker":      v.Maker,
			"nftAddress": v.NftAddress,
			"tokenURI":   v.TokenURI,
		},
	}

	return eip712.EncodeTypedDataV4(context.Background(), payload)
}
