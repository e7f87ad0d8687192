package stake

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// ShieldedInput stakes a shielded coin. A candidate wraps a mint of the local wallet, a staked input
// wraps the coin spend of a coinstake that is being validated.
type ShieldedInput struct {
	denomination zerocoin.Denomination
	serialHash   model.Identifier

	mint      *zerocoin.Mint
	coinSpend *zerocoin.CoinSpend

	// checkpointHeight is the checkpoint the coin is proven against, its block is the source block.
	checkpointHeight model.Height
}

// NewShieldedCandidate wraps a mint that is considered for staking.
func NewShieldedCandidate(mint *zerocoin.Mint, params *zerocoin.Parameters) *ShieldedInput {
	return &ShieldedInput{
		denomination:     mint.Denomination,
		serialHash:       mint.SerialHash,
		mint:             mint,
		checkpointHeight: FirstCheckpointHeight(mint.Height, params.CheckpointInterval),
	}
}

// NewShieldedStaked wraps the coin spend of a coinstake.
func NewShieldedStaked(coinSpend *zerocoin.CoinSpend) *ShieldedInput {
	return &ShieldedInput{
		denomination:     coinSpend.Denomination,
		serialHash:       coinSpend.SerialHash(),
		coinSpend:        coinSpend,
		checkpointHeight: coinSpend.CheckpointHeight,
	}
}

// FirstCheckpointHeight returns the height of the first checkpoint that contains a mint.
func FirstCheckpointHeight(mintHeight model.Height, checkpointInterval model.Height) model.Height {
	if checkpointInterval == 0 {
		return mintHeight
	}

	return (mintHeight + checkpointInterval - 1) / checkpointInterval * checkpointInterval
}

// IndexFrom returns the block of the checkpoint the coin is proven against. For candidates this is the
// first checkpoint containing the mint, which the stake spend references later on.
func (s *ShieldedInput) IndexFrom(view chain.View) (*chain.BlockIndex, error) {
	if s.mint != nil && !s.mint.IsConfirmed() {
		return nil, ierrors.Wrapf(ErrNoSourceBlock, "mint %s is unconfirmed", s.mint.ID().Alias())
	}

	return sourceBlockByHeight(view, s.checkpointHeight)
}

func (s *ShieldedInput) Value() int64 {
	return s.denomination.Amount()
}

func (s *ShieldedInput) Modifier(view chain.View, interval int64) (uint64, error) {
	from, err := s.IndexFrom(view)
	if err != nil {
		return 0, err
	}

	return modifierFrom(view, from, interval)
}

func (s *ShieldedInput) Uniqueness() []byte {
	return append([]byte{uniquenessDomainShielded}, s.serialHash[:]...)
}

func (s *ShieldedInput) CreateTxIn(wallet Wallet, txOutHash model.Identifier) (*TxIn, error) {
	if s.coinSpend != nil {
		return &TxIn{CoinSpend: s.coinSpend}, nil
	}

	coinSpend, err := wallet.CreateStakeSpend(s.mint, s.checkpointHeight, txOutHash)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to spend mint %s as stake", s.mint.ID().Alias())
	}
	s.coinSpend = coinSpend

	return &TxIn{CoinSpend: coinSpend}, nil
}

// CreateTxOuts mints the stake and the reward into new shielded coins.
func (s *ShieldedInput) CreateTxOuts(wallet Wallet, total int64) ([]*model.TxOut, error) {
	return wallet.CreateMintOutputs(total)
}

func (s *ShieldedInput) IsShielded() bool {
	return true
}

func (s *ShieldedInput) Denomination() zerocoin.Denomination {
	return s.denomination
}

func (s *ShieldedInput) SerialHash() model.Identifier {
	return s.serialHash
}

func (s *ShieldedInput) CheckpointHeight() model.Height {
	return s.checkpointHeight
}

// CoinSpend returns the revealed coin spend, it is nil for a candidate that was not used yet.
func (s *ShieldedInput) CoinSpend() *zerocoin.CoinSpend {
	return s.coinSpend
}

var _ Input = &ShieldedInput{}
