package issuer

import (
	"math/big"
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/solulab/nft-marketplace/internal/royalty"
	"github.com/solulab/nft-marketplace/internal/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chainId     = int64(1)
	nftAddress  = "0xcf037f9f75f35362fc21e4ca879c8281ab53c39a"
	marketplace = "0x8d329a47bf148c7d63d52b75fb2028adc10a3d2f"
)

func newTestIssuer() Issuer {
	return NewIssuer(nftAddress, marketplace, voucher.NewVerifier(chainId), royalty.NewRegistry(marketplace))
}

func signedVoucher(t *testing.T, kp *secp256k1.KeyPair, tokenId uint64) (entity.NFTVoucher, []byte) {
	t.Helper()

	v := entity.NFTVoucher{
		TokenId:    tokenId,
		NftAmount:  10,
		Price:      "1000000000000000000",
		StartDate:  1730204065,
		EndDate:    1730204665,
		Maker:      kp.Address.String(),
		NftAddress: nftAddress,
		TokenURI:   "ipfs://QmWmyoMoctfbAaiEs2G46gpeUmhqFRDW6KWo64y5r581Vz",
	}

	sig, err := voucher.SignWithKeyPair(v, chainId, kp)
	require.NoError(t, err)

	return v, sig
}

func TestRedeem(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, sig := signedVoucher(t, kp, 1)

	tokenId, err := i.Redeem(marketplace, "0xbuyer", v, 3, sig)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tokenId)

	assert.Equal(t, uint64(3), i.BalanceOf("0xbuyer", 1))
	assert.Equal(t, uint64(3), i.TotalSupply(1))
	assert.Equal(t, v.TokenURI, i.URI(1))
	assert.Equal(t, v.Maker, i.GetCreator(1))
}

func TestRedeemUnauthorisedCaller(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, sig := signedVoucher(t, kp, 1)

	_, err = i.Redeem("0x1111111111111111111111111111111111111111", "0xbuyer", v, 1, sig)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRedeemSignerMismatch(t *testing.T) {
	i := newTestIssuer()
	maker, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)
	other, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, _ := signedVoucher(t, maker, 1)
	_, sig := signedVoucher(t, other, 1)
	v.Maker = maker.Address.String()

	_, err = i.Redeem(marketplace, "0xbuyer", v, 1, sig)
	assert.ErrorIs(t, err, ErrUnauthorizedSigner)
	assert.Equal(t, uint64(0), i.TotalSupply(1))
}

func TestRedeemSupplyCap(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	require.NoError(t, i.SetMaxTokens(marketplace, 1, 5))

	v, sig := signedVoucher(t, kp, 1)

	_, err = i.Redeem(marketplace, "0xbuyer", v, 4, sig)
	require.NoError(t, err)

	_, err = i.Redeem(marketplace, "0xbuyer", v, 2, sig)
	assert.ErrorIs(t, err, ErrSupplyExceeded)

	_, err = i.Redeem(marketplace, "0xbuyer", v, 1, sig)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), i.TotalSupply(1))
}

func TestRedeemZeroCapUncapped(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, sig := signedVoucher(t, kp, 1)

	_, err = i.Redeem(marketplace, "0xbuyer", v, 1000, sig)
	assert.NoError(t, err)
}

func TestRedeemFirstUriWins(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, sig := signedVoucher(t, kp, 1)
	_, err = i.Redeem(marketplace, "0xbuyer", v, 1, sig)
	require.NoError(t, err)

	v2 := v
	v2.TokenURI = "ipfs://QmOther"
	sig2, err := voucher.SignWithKeyPair(v2, chainId, kp)
	require.NoError(t, err)

	_, err = i.Redeem(marketplace, "0xbuyer", v2, 1, sig2)
	require.NoError(t, err)
	assert.Equal(t, v.TokenURI, i.URI(1))
}

func TestSetCreator(t *testing.T) {
	i := newTestIssuer()

	require.NoError(t, i.SetCreator(marketplace, 1, "0xAA00000000000000000000000000000000000011"))
	assert.Equal(t, "0xaa00000000000000000000000000000000000011", i.GetCreator(1))

	err := i.SetCreator("0x1111111111111111111111111111111111111111", 1, "0xbb")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetCreatorDefault(t *testing.T) {
	i := newTestIssuer()
	assert.Equal(t, entity.ZeroAddress, i.GetCreator(99))
}

func TestTransfer(t *testing.T) {
	i := newTestIssuer()
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v, sig := signedVoucher(t, kp, 1)
	_, err = i.Redeem(marketplace, "0xseller", v, 5, sig)
	require.NoError(t, err)

	require.NoError(t, i.Transfer(marketplace, "0xseller", "0xbuyer", 1, 2))
	assert.Equal(t, uint64(3), i.BalanceOf("0xseller", 1))
	assert.Equal(t, uint64(2), i.BalanceOf("0xbuyer", 1))

	err = i.Transfer(marketplace, "0xseller", "0xbuyer", 1, 10)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	err = i.Transfer("0xseller", "0xseller", "0xbuyer", 1, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRoyaltyInfoSubstitutesCreator(t *testing.T) {
	reg := royalty.NewRegistry(marketplace)
	i := NewIssuer(nftAddress, marketplace, voucher.NewVerifier(chainId), reg)

	require.NoError(t, i.SetCreator(marketplace, 1, "0xaa00000000000000000000000000000000000011"))

	recipients, amounts, total := i.RoyaltyInfo(1, big.NewInt(10000))
	assert.Equal(t, []string{"0xaa00000000000000000000000000000000000011"}, recipients)
	assert.Equal(t, "250", amounts[0].String())
	assert.Equal(t, "250", total.String())
}

func TestRoyaltyInfoExplicitEntry(t *testing.T) {
	reg := royalty.NewRegistry(marketplace)
	i := NewIssuer(nftAddress, marketplace, voucher.NewVerifier(chainId), reg)

	require.NoError(t, reg.SetRoyalty(marketplace, 1, []uint64{300}, []string{"0xcc"}))
	require.NoError(t, i.SetCreator(marketplace, 1, "0xaa00000000000000000000000000000000000011"))

	recipients, _, total := i.RoyaltyInfo(1, big.NewInt(10000))
	assert.Equal(t, []string{"0xcc"}, recipients)
	assert.Equal(t, "300", total.String())
}
