package royalty

import (
	"math/big"
	"testing"

	"github.com/solulab/nft-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketplace = "0x8d329a47bf148c7d63d52b75fb2028adc10a3d2f"

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestSetRoyalty(t *testing.T) {
	r := NewRegistry(marketplace)

	err := r.SetRoyalty(marketplace, 1, []uint64{300, 200}, []string{"0xaa", "0xbb"})
	require.NoError(t, err)

	recipients, values := r.GetRoyalty(1)
	assert.Equal(t, []string{"0xaa", "0xbb"}, recipients)
	assert.Equal(t, []uint64{300, 200}, values)
}

func TestSetRoyaltyUnauthorised(t *testing.T) {
	r := NewRegistry(marketplace)

	err := r.SetRoyalty("0x1111111111111111111111111111111111111111", 1, []uint64{250}, []string{"0xaa"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, r.Has(1))
}

func TestSetRoyaltyArityMismatch(t *testing.T) {
	r := NewRegistry(marketplace)

	err := r.SetRoyalty(marketplace, 1, []uint64{250}, []string{"0xaa", "0xbb"})
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestSetRoyaltyOverCap(t *testing.T) {
	r := NewRegistry(marketplace)

	err := r.SetRoyalty(marketplace, 1, []uint64{1001}, []string{"0xaa"})
	assert.ErrorIs(t, err, ErrRoyaltyTooHigh)

	err = r.SetRoyalty(marketplace, 1, []uint64{600, 500}, []string{"0xaa", "0xbb"})
	assert.ErrorIs(t, err, ErrRoyaltyTooHigh)

	err = r.SetRoyalty(marketplace, 1, []uint64{600, 400}, []string{"0xaa", "0xbb"})
	assert.NoError(t, err)
}

func TestGetRoyaltyDefault(t *testing.T) {
	r := NewRegistry(marketplace)

	recipients, values := r.GetRoyalty(42)
	assert.Equal(t, []string{entity.ZeroAddress}, recipients)
	assert.Equal(t, []uint64{DefaultBps}, values)
	assert.False(t, r.Has(42))
}

func TestSetRoyaltyReplacesEntry(t *testing.T) {
	r := NewRegistry(marketplace)

	require.NoError(t, r.SetRoyalty(marketplace, 1, []uint64{500}, []string{"0xaa"}))
	require.NoError(t, r.SetRoyalty(marketplace, 1, []uint64{100}, []string{"0xcc"}))

	recipients, values := r.GetRoyalty(1)
	assert.Equal(t, []string{"0xcc"}, recipients)
	assert.Equal(t, []uint64{100}, values)
}

func TestComputeRoyalty(t *testing.T) {
	r := NewRegistry(marketplace)
	require.NoError(t, r.SetRoyalty(marketplace, 1, []uint64{300, 200}, []string{"0xaa", "0xbb"}))

	recipients, amounts, total := r.ComputeRoyalty(1, eth(1))

	require.Len(t, recipients, 2)
	assert.Equal(t, "30000000000000000", amounts[0].String())
	assert.Equal(t, "20000000000000000", amounts[1].String())
	assert.Equal(t, "50000000000000000", total.String())
}

func TestComputeRoyaltyLinear(t *testing.T) {
	r := NewRegistry(marketplace)
	require.NoError(t, r.SetRoyalty(marketplace, 1, []uint64{300, 200}, []string{"0xaa", "0xbb"}))

	_, single, singleTotal := r.ComputeRoyalty(1, eth(1))
	_, double, doubleTotal := r.ComputeRoyalty(1, eth(2))

	for i := range single {
		assert.Equal(t, new(big.Int).Mul(single[i], big.NewInt(2)), double[i])
	}
	assert.Equal(t, new(big.Int).Mul(singleTotal, big.NewInt(2)), doubleTotal)
}

func TestComputeRoyaltyDefaultSplit(t *testing.T) {
	r := NewRegistry(marketplace)

	recipients, amounts, total := r.ComputeRoyalty(7, eth(1))

	assert.Equal(t, []string{entity.ZeroAddress}, recipients)
	assert.Equal(t, "25000000000000000", amounts[0].String())
	assert.Equal(t, "25000000000000000", total.String())
}

func TestComputeRoyaltyFloorsRounding(t *testing.T) {
	r := NewRegistry(marketplace)
	require.NoError(t, r.SetRoyalty(marketplace, 1, []uint64{333}, []string{"0xaa"}))

	_, amounts, total := r.ComputeRoyalty(1, big.NewInt(101))

	// 101 * 333 / 10000 = 3.3633 -> 3
	assert.Equal(t, "3", amounts[0].String())
	assert.Equal(t, "3", total.String())
}
