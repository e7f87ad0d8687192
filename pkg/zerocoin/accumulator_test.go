package zerocoin_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

func generateCoins(t *testing.T, count int) []*zerocoin.PrivateCoin {
	coins := make([]*zerocoin.PrivateCoin, count)
	for i := range coins {
		coin, err := zerocoin.GeneratePrivateCoin(zerocoin.DenominationTen, zerocoin.CurrentCoinVersion)
		require.NoError(t, err)
		require.True(t, coin.IsValid())
		coins[i] = coin
	}

	return coins
}

func TestWitnessVerifiesMembership(t *testing.T) {
	params := zerocoin.DefaultAccumulatorParams
	coins := generateCoins(t, 4)

	accumulator := zerocoin.NewAccumulator(params)
	for _, coin := range coins {
		require.NoError(t, accumulator.Accumulate(coin.PublicCoin.Value))
	}

	for _, coin := range coins {
		witness := zerocoin.NewWitness(params, coin.PublicCoin.Value)
		for _, member := range coins {
			witness.AddElement(member.PublicCoin.Value)
		}

		require.True(t, witness.VerifyWitness(accumulator.Value()))
	}

	outsider := generateCoins(t, 1)[0]
	witness := zerocoin.NewWitness(params, outsider.PublicCoin.Value)
	for _, member := range coins {
		witness.AddElement(member.PublicCoin.Value)
	}
	require.False(t, witness.VerifyWitness(accumulator.Value()))
}

func TestAccumulateRejectsComposites(t *testing.T) {
	accumulator := zerocoin.NewAccumulator(zerocoin.DefaultAccumulatorParams)

	require.ErrorIs(t, accumulator.Accumulate(big.NewInt(15)), zerocoin.ErrInvalidCommitment)
	require.ErrorIs(t, accumulator.Accumulate(big.NewInt(0)), zerocoin.ErrInvalidCommitment)
	require.Equal(t, zerocoin.DefaultAccumulatorParams.Base, accumulator.Value())
}

func TestWitnessEncoding(t *testing.T) {
	params := zerocoin.DefaultAccumulatorParams
	coin := generateCoins(t, 1)[0]

	witness := zerocoin.NewWitness(params, coin.PublicCoin.Value)
	witness.AddElement(generateCoins(t, 1)[0].PublicCoin.Value)

	blob := zerocoin.EncodeWitness(zerocoin.DenominationTen, 120, witness)
	denomination, height, decoded, err := zerocoin.DecodeWitness(params, coin.PublicCoin.Value, blob)
	require.NoError(t, err)
	require.Equal(t, zerocoin.DenominationTen, denomination)
	require.EqualValues(t, 120, height)
	require.Equal(t, witness.Value(), decoded.Value())

	_, _, _, err = zerocoin.DecodeWitness(params, coin.PublicCoin.Value, blob[:3])
	require.ErrorIs(t, err, zerocoin.ErrMalformedWitness)
}

func TestMintSerialization(t *testing.T) {
	coin := generateCoins(t, 1)[0]

	mint := zerocoin.NewMint(coin, [32]byte{1, 2, 3})
	mint.Height = 77

	restored, err := zerocoin.MintFromBytes(mint.Bytes())
	require.NoError(t, err)
	require.Equal(t, mint, restored)

	privateCoin, hasSecret := restored.PrivateCoin()
	require.True(t, hasSecret)
	require.True(t, privateCoin.IsValid())
	require.Equal(t, coin.SerialHash(), restored.SerialHash)

	mint.Serial, mint.Randomness = nil, nil
	restored, err = zerocoin.MintFromBytes(mint.Bytes())
	require.NoError(t, err)
	_, hasSecret = restored.PrivateCoin()
	require.False(t, hasSecret)
}

func TestVerifyCommitment(t *testing.T) {
	coin := generateCoins(t, 1)[0]

	require.NoError(t, zerocoin.VerifyCommitment(coin.Serial, coin.Randomness, coin.PublicCoin.Value))
	require.ErrorIs(t, zerocoin.VerifyCommitment(big.NewInt(424242), coin.Randomness, coin.PublicCoin.Value), zerocoin.ErrCommitmentBinding)
	require.ErrorIs(t, zerocoin.VerifyCommitment(coin.Serial, big.NewInt(7), coin.PublicCoin.Value), zerocoin.ErrCommitmentBinding)
	require.ErrorIs(t, zerocoin.VerifyCommitment(coin.Serial, nil, coin.PublicCoin.Value), zerocoin.ErrCommitmentBinding)
	require.ErrorIs(t, zerocoin.VerifyCommitment(big.NewInt(-1), coin.Randomness, coin.PublicCoin.Value), zerocoin.ErrCommitmentBinding)
	require.ErrorIs(t, zerocoin.VerifyCommitment(new(big.Int).Lsh(big.NewInt(1), 257), coin.Randomness, coin.PublicCoin.Value), zerocoin.ErrCommitmentBinding)
	require.ErrorIs(t, zerocoin.VerifyCommitment(coin.Serial, coin.Randomness, nil), zerocoin.ErrCommitmentBinding)
}
