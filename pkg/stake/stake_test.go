package stake_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

const (
	genesisTime = 1_700_000_000
	blockTime   = 60

	// easyBits saturates the weighted target for any positive value.
	easyBits uint32 = 0x2100ffff
	// impossibleBits decodes to a zero target.
	impossibleBits uint32 = 0x1d000000
)

func buildChain(t *testing.T, count int) (*chain.Index, []*chain.BlockIndex) {
	index := chain.NewIndex()
	blocks := make([]*chain.BlockIndex, 0, count)

	var prevID model.Identifier
	var modifier uint64
	for height := 0; height < count; height++ {
		id := model.IdentifierFromData([]byte{byte(height), byte(height >> 8), 0xaa})
		block := &chain.BlockIndex{
			Height:        model.Height(height),
			ID:            id,
			PrevID:        prevID,
			Time:          genesisTime + int64(height)*blockTime,
			Bits:          easyBits,
			StakeModifier: modifier,
		}
		require.NoError(t, index.AddBlock(block))

		blocks = append(blocks, block)
		prevID = id
		modifier = stake.NextStakeModifier(modifier, id)
	}

	return index, blocks
}

func transparentInput(blockID model.Identifier, value int64) *stake.TransparentInput {
	return stake.NewTransparentInput(
		model.OutPoint{TxID: model.IdentifierFromData(blockID[:]), Index: 1},
		&model.TxOut{Value: value, Address: "staker"},
		blockID,
	)
}

func TestKernelHashIsDeterministic(t *testing.T) {
	uniqueness := []byte{0x00, 1, 2, 3}

	first := stake.KernelHash(42, genesisTime, uniqueness, genesisTime+600)
	second := stake.KernelHash(42, genesisTime, uniqueness, genesisTime+600)
	require.Equal(t, first, second)

	for _, bits := range []uint32{easyBits, impossibleBits, 0x1e0fffff, 0x1f00ffff} {
		require.Equal(t, stake.MeetsTarget(first, bits, zerocoin.Coin), stake.MeetsTarget(second, bits, zerocoin.Coin))
	}

	require.NotEqual(t, first, stake.KernelHash(43, genesisTime, uniqueness, genesisTime+600))
	require.NotEqual(t, first, stake.KernelHash(42, genesisTime+1, uniqueness, genesisTime+600))
	require.NotEqual(t, first, stake.KernelHash(42, genesisTime, []byte{0x01, 1, 2, 3}, genesisTime+600))
	require.NotEqual(t, first, stake.KernelHash(42, genesisTime, uniqueness, genesisTime+601))
}

func TestNextStakeModifier(t *testing.T) {
	hash := model.IdentifierFromData([]byte("block"))

	require.Equal(t, stake.NextStakeModifier(7, hash), stake.NextStakeModifier(7, hash))
	require.NotEqual(t, stake.NextStakeModifier(7, hash), stake.NextStakeModifier(8, hash))
	require.NotEqual(t, stake.NextStakeModifier(7, hash), stake.NextStakeModifier(7, model.IdentifierFromData([]byte("other"))))
}

func TestUniquenessDomainsAreSeparated(t *testing.T) {
	serialHash := model.IdentifierFromData([]byte("serial"))

	transparent := stake.NewTransparentInput(model.OutPoint{TxID: serialHash}, &model.TxOut{Value: zerocoin.Coin}, serialHash)
	shielded := stake.NewShieldedStaked(&zerocoin.CoinSpend{Denomination: zerocoin.DenominationOne, Serial: big.NewInt(5), CheckpointHeight: 10})

	require.Equal(t, byte(0x00), transparent.Uniqueness()[0])
	require.Equal(t, byte(0x01), shielded.Uniqueness()[0])
	require.NotEqual(t, transparent.Uniqueness(), shielded.Uniqueness())
	require.Len(t, transparent.Uniqueness(), 1+model.IdentifierLength+4)
	require.Len(t, shielded.Uniqueness(), 1+model.IdentifierLength)
}

func TestTargetFromCompact(t *testing.T) {
	expected := new(uint256.Int).Lsh(uint256.NewInt(0xffff), 208)
	require.Equal(t, expected, stake.TargetFromCompact(0x1d00ffff))
	require.Equal(t, uint32(0x1d00ffff), stake.CompactFromTarget(expected))

	require.True(t, stake.TargetFromCompact(0x03123456).Eq(uint256.NewInt(0x123456)))
	require.True(t, stake.TargetFromCompact(0x01123456).Eq(uint256.NewInt(0x12)))
	require.True(t, stake.TargetFromCompact(0x04923456).IsZero())
	require.True(t, stake.TargetFromCompact(impossibleBits).IsZero())

	// the weighted target grows linearly with the staked value
	single := stake.WeightedTarget(0x1d00ffff, zerocoin.Coin)
	double := stake.WeightedTarget(0x1d00ffff, 2*zerocoin.Coin)
	require.Equal(t, new(uint256.Int).Mul(single, uint256.NewInt(2)), double)

	require.Equal(t, new(uint256.Int).SetAllOne(), stake.WeightedTarget(easyBits, zerocoin.Coin))
	require.True(t, stake.WeightedTarget(easyBits, 0).IsZero())
}

func TestModifierSelection(t *testing.T) {
	view, blocks := buildChain(t, 100)

	input := transparentInput(blocks[10].ID, zerocoin.Coin)

	// the first block more than an hour after block 10 is block 71
	modifier, err := input.Modifier(view, 3600)
	require.NoError(t, err)
	require.Equal(t, blocks[71].StakeModifier, modifier)

	_, err = transparentInput(blocks[50].ID, zerocoin.Coin).Modifier(view, 3600)
	require.ErrorIs(t, err, stake.ErrImmatureInput)
}

func TestKernelCheck(t *testing.T) {
	view, blocks := buildChain(t, 300)
	kernel := stake.NewKernel(view, zerocoin.NewParameters())
	candidateTime := blocks[299].Time + blockTime

	hash, err := kernel.Check(transparentInput(blocks[10].ID, zerocoin.Coin), easyBits, candidateTime)
	require.NoError(t, err)
	require.False(t, hash.Empty())

	_, err = kernel.Check(transparentInput(blocks[10].ID, zerocoin.Coin), impossibleBits, candidateTime)
	require.ErrorIs(t, err, stake.ErrKernelMismatch)

	_, err = kernel.Check(transparentInput(blocks[250].ID, zerocoin.Coin), easyBits, candidateTime)
	require.ErrorIs(t, err, stake.ErrImmatureInput)

	_, err = kernel.Check(transparentInput(model.IdentifierFromData([]byte("unknown")), zerocoin.Coin), easyBits, candidateTime)
	require.ErrorIs(t, err, stake.ErrNoSourceBlock)

	_, err = kernel.Check(transparentInput(blocks[10].ID, zerocoin.Coin), easyBits, blocks[9].Time)
	require.ErrorIs(t, err, stake.ErrKernelMismatch)
}

type wallet struct {
	stakeSpends int
}

func (w *wallet) NewAddress() (model.Address, error) {
	return "fresh", nil
}

func (w *wallet) CreateStakeSpend(mint *zerocoin.Mint, checkpointHeight model.Height, txOutHash model.Identifier) (*zerocoin.CoinSpend, error) {
	w.stakeSpends++

	return &zerocoin.CoinSpend{
		Denomination:     mint.Denomination,
		Serial:           mint.Serial,
		Randomness:       mint.Randomness,
		Commitment:       mint.Commitment,
		CheckpointHeight: checkpointHeight,
		Version:          mint.Version,
		SecurityLevel:    zerocoin.MaxSecurityLevel,
		TxOutHash:        txOutHash,
	}, nil
}

func (w *wallet) CreateMintOutputs(total int64) ([]*model.TxOut, error) {
	return []*model.TxOut{{Value: total, Address: "shielded"}}, nil
}

func TestShieldedCandidateAndStakedAgree(t *testing.T) {
	view, blocks := buildChain(t, 300)
	params := zerocoin.NewParameters()
	kernel := stake.NewKernel(view, params)
	candidateTime := blocks[299].Time + blockTime

	coin, err := zerocoin.GeneratePrivateCoin(zerocoin.DenominationOneHundred, zerocoin.CurrentCoinVersion)
	require.NoError(t, err)
	mint := zerocoin.NewMint(coin, model.IdentifierFromData([]byte("mint tx")))
	mint.Height = 15

	candidate := stake.NewShieldedCandidate(mint, params)
	require.True(t, candidate.IsShielded())
	require.EqualValues(t, 20, candidate.CheckpointHeight())
	require.Equal(t, 100*zerocoin.Coin, candidate.Value())

	from, err := candidate.IndexFrom(view)
	require.NoError(t, err)
	require.Equal(t, blocks[20], from)

	candidateHash, err := kernel.Check(candidate, easyBits, candidateTime)
	require.NoError(t, err)

	w := &wallet{}
	txIn, err := candidate.CreateTxIn(w, model.IdentifierFromData([]byte("outputs")))
	require.NoError(t, err)
	require.Nil(t, txIn.PrevOut)
	require.Equal(t, 1, w.stakeSpends)

	staked := stake.NewShieldedStaked(txIn.CoinSpend)
	require.Equal(t, candidate.Uniqueness(), staked.Uniqueness())

	stakedHash, err := kernel.Check(staked, easyBits, candidateTime)
	require.NoError(t, err)
	require.Equal(t, candidateHash, stakedHash)

	outputs, err := candidate.CreateTxOuts(w, 101*zerocoin.Coin)
	require.NoError(t, err)
	require.Equal(t, 101*zerocoin.Coin, outputs[0].Value)

	unconfirmed := zerocoin.NewMint(coin, model.EmptyIdentifier)
	_, err = stake.NewShieldedCandidate(unconfirmed, params).IndexFrom(view)
	require.ErrorIs(t, err, stake.ErrNoSourceBlock)
}

func TestValidatorRejectsReplays(t *testing.T) {
	view, blocks := buildChain(t, 300)
	validator := stake.NewValidator(stake.NewKernel(view, zerocoin.NewParameters()), memberIndex{})

	input := transparentInput(blocks[10].ID, zerocoin.Coin)
	block := &chain.BlockIndex{Height: 300, Time: blocks[299].Time + blockTime, Bits: easyBits}

	_, err := validator.CheckProofOfStake(block, input)
	require.NoError(t, err)
	require.NoError(t, validator.ConnectBlock(block, input))
	require.True(t, validator.HasSeen(input))

	// the same input can not stake another block
	next := &chain.BlockIndex{Height: 301, Time: block.Time + blockTime, Bits: easyBits}
	_, err = validator.CheckProofOfStake(next, input)
	require.ErrorIs(t, err, stake.ErrDuplicateStake)
	require.ErrorIs(t, validator.ConnectBlock(next, input), stake.ErrDuplicateStake)

	validator.DisconnectBlock(input)
	require.Zero(t, validator.Size())
	_, err = validator.CheckProofOfStake(next, input)
	require.NoError(t, err)
}

type memberIndex map[string]model.Height

func (m memberIndex) MemberHeight(commitment *big.Int) (model.Height, error) {
	height, exists := m[commitment.String()]
	if !exists {
		return 0, ierrors.New("unknown commitment")
	}

	return height, nil
}

func TestValidatorPinsStakedCheckpoint(t *testing.T) {
	view, blocks := buildChain(t, 300)
	params := zerocoin.NewParameters()

	coin, err := zerocoin.GeneratePrivateCoin(zerocoin.DenominationOneHundred, zerocoin.CurrentCoinVersion)
	require.NoError(t, err)
	mint := zerocoin.NewMint(coin, model.IdentifierFromData([]byte("mint tx")))
	mint.Height = 15

	validator := stake.NewValidator(stake.NewKernel(view, params), memberIndex{coin.PublicCoin.Value.String(): 15})
	block := &chain.BlockIndex{Height: 300, Time: blocks[299].Time + blockTime, Bits: easyBits}

	w := &wallet{}
	stakeSpend := func(checkpointHeight model.Height) *stake.ShieldedInput {
		coinSpend, err := w.CreateStakeSpend(mint, checkpointHeight, model.EmptyIdentifier)
		require.NoError(t, err)

		return stake.NewShieldedStaked(coinSpend)
	}

	_, err = validator.CheckProofOfStake(block, stakeSpend(20))
	require.NoError(t, err)

	// a later checkpoint would move the source block and with it the kernel
	_, err = validator.CheckProofOfStake(block, stakeSpend(30))
	require.ErrorIs(t, err, stake.ErrCheckpointMismatch)

	_, err = validator.CheckProofOfStake(block, stakeSpend(10))
	require.ErrorIs(t, err, stake.ErrCheckpointMismatch)

	unknown := foreignCoinSpend(t, 20)
	_, err = validator.CheckProofOfStake(block, stake.NewShieldedStaked(unknown))
	require.ErrorIs(t, err, stake.ErrNoSourceBlock)

	// candidates are checked against their own mint height
	_, err = validator.CheckProofOfStake(block, stake.NewShieldedCandidate(mint, params))
	require.NoError(t, err)
}

func foreignCoinSpend(t *testing.T, checkpointHeight model.Height) *zerocoin.CoinSpend {
	coin, err := zerocoin.GeneratePrivateCoin(zerocoin.DenominationOneHundred, zerocoin.CurrentCoinVersion)
	require.NoError(t, err)

	return &zerocoin.CoinSpend{
		Denomination:     coin.PublicCoin.Denomination,
		Serial:           coin.Serial,
		Randomness:       coin.Randomness,
		Commitment:       coin.PublicCoin.Value,
		CheckpointHeight: checkpointHeight,
		Version:          coin.Version,
	}
}

func TestSearcher(t *testing.T) {
	view, blocks := buildChain(t, 300)
	kernel := stake.NewKernel(view, zerocoin.NewParameters())
	candidateTime := blocks[299].Time + blockTime

	immature := transparentInput(blocks[250].ID, zerocoin.Coin)
	unknown := transparentInput(model.IdentifierFromData([]byte("unknown")), zerocoin.Coin)
	mature := transparentInput(blocks[20].ID, zerocoin.Coin)

	for _, workers := range []int{1, 2, 8} {
		searcher := stake.NewSearcher(kernel, stake.WithWorkers(workers))

		result, err := searcher.Search(context.Background(), []stake.Input{immature, unknown, mature}, easyBits, candidateTime)
		require.NoError(t, err)
		require.Equal(t, mature, result.Input)

		_, err = searcher.Search(context.Background(), []stake.Input{immature, unknown}, easyBits, candidateTime)
		require.ErrorIs(t, err, stake.ErrNoKernelFound)

		_, err = searcher.Search(context.Background(), []stake.Input{mature}, impossibleBits, candidateTime)
		require.ErrorIs(t, err, stake.ErrNoKernelFound)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stake.NewSearcher(kernel).Search(ctx, []stake.Input{mature}, easyBits, candidateTime)
	require.ErrorIs(t, err, context.Canceled)
}
