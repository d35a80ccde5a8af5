package voucher

import (
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainId = int64(1)

func testVoucher(maker string) entity.NFTVoucher {
	return entity.NFTVoucher{
		TokenId:    1,
		NftAmount:  2,
		Price:      "10000000000000000000",
		StartDate:  1730204065,
		EndDate:    1730204665,
		Maker:      maker,
		NftAddress: "0xcf037f9f75f35362fc21e4ca879c8281ab53c39a",
		TokenURI:   "ipfs://QmWmyoMoctfbAaiEs2G46gpeUmhqFRDW6KWo64y5r581Vz",
	}
}

func TestRecoverSigner(t *testing.T) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(kp.Address.String())

	sig, err := SignWithKeyPair(v, chainId, kp)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	signer, err := NewVerifier(chainId).RecoverSigner(v, sig)
	require.NoError(t, err)
	assert.Equal(t, kp.Address.String(), signer)
}

func TestRecoverSignerWrongKey(t *testing.T) {
	maker, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)
	other, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(maker.Address.String())

	sig, err := SignWithKeyPair(v, chainId, other)
	require.NoError(t, err)

	signer, err := NewVerifier(chainId).RecoverSigner(v, sig)
	require.NoError(t, err)

	// Recovery succeeds but yields the actual signer, not the claimed maker.
	assert.NotEqual(t, v.Maker, signer)
	assert.Equal(t, other.Address.String(), signer)
}

func TestRecoverSignerTamperedVoucher(t *testing.T) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(kp.Address.String())

	sig, err := SignWithKeyPair(v, chainId, kp)
	require.NoError(t, err)

	v.Price = "1"
	signer, err := NewVerifier(chainId).RecoverSigner(v, sig)
	require.NoError(t, err)
	assert.NotEqual(t, kp.Address.String(), signer)
}

func TestRecoverSignerMalformedSignature(t *testing.T) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(kp.Address.String())

	_, err = NewVerifier(chainId).RecoverSigner(v, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRecoverSignerDomainMismatch(t *testing.T) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(kp.Address.String())

	sig, err := SignWithKeyPair(v, chainId, kp)
	require.NoError(t, err)

	signer, err := NewVerifier(4).RecoverSigner(v, sig)
	if err == nil {
		assert.NotEqual(t, kp.Address.String(), signer)
	}
}

func TestSignRejectsBadPrice(t *testing.T) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	v := testVoucher(kp.Address.String())
	v.Price = "ten"

	_, err = SignWithKeyPair(v, chainId, kp)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
