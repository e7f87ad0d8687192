package stake

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

var (
	// ErrNoSourceBlock is returned if the block an input originates from is not part of the active chain.
	ErrNoSourceBlock = ierrors.New("source block of stake input not found")
	// ErrImmatureInput is returned if an input does not have enough confirmations to stake.
	ErrImmatureInput = ierrors.New("stake input is immature")
	// ErrKernelMismatch is returned if a kernel hash does not meet the target.
	ErrKernelMismatch = ierrors.New("kernel hash does not meet target")
)

const (
	uniquenessDomainTransparent byte = 0x00
	uniquenessDomainShielded    byte = 0x01
)

// TxIn is the input of a coinstake transaction, spending either an output or a shielded coin.
type TxIn struct {
	PrevOut   *model.OutPoint
	CoinSpend *zerocoin.CoinSpend
}

// Wallet creates the wallet-owned parts of a coinstake transaction.
type Wallet interface {
	// NewAddress returns a fresh address of the wallet.
	NewAddress() (model.Address, error)
	// CreateStakeSpend spends a mint as stake against the given checkpoint, binding the spend to the
	// coinstake outputs.
	CreateStakeSpend(mint *zerocoin.Mint, checkpointHeight model.Height, txOutHash model.Identifier) (*zerocoin.CoinSpend, error)
	// CreateMintOutputs mints shielded coins worth total and returns their outputs.
	CreateMintOutputs(total int64) ([]*model.TxOut, error)
}

// Input is a credential that can be used to stake a block.
type Input interface {
	// IndexFrom returns the block the input originates from.
	IndexFrom(view chain.View) (*chain.BlockIndex, error)
	// Value returns the value of the input in base units.
	Value() int64
	// Modifier returns the stake modifier used in the kernel of the input.
	Modifier(view chain.View, interval int64) (uint64, error)
	// Uniqueness returns the key that identifies the input in the anti-replay set.
	Uniqueness() []byte
	CreateTxIn(wallet Wallet, txOutHash model.Identifier) (*TxIn, error)
	CreateTxOuts(wallet Wallet, total int64) ([]*model.TxOut, error)
	IsShielded() bool
}

// modifierFrom selects the modifier of the first block that is more than interval seconds younger than
// the source block, which is unknown at the time the input was created.
func modifierFrom(view chain.View, from *chain.BlockIndex, interval int64) (uint64, error) {
	selectionTime := from.Time + interval

	for block := from; ; {
		next, err := view.Next(block)
		if err != nil {
			if ierrors.Is(err, chain.ErrBlockNotFound) {
				return 0, ierrors.Wrapf(ErrImmatureInput, "no block after %s past the modifier interval", from)
			}

			return 0, err
		}

		if next.Time > selectionTime {
			return next.StakeModifier, nil
		}

		block = next
	}
}

func sourceBlockByID(view chain.View, id model.Identifier) (*chain.BlockIndex, error) {
	block, err := view.BlockByID(id)
	if err != nil {
		return nil, ierrors.Join(ErrNoSourceBlock, err)
	}

	return block, nil
}

func sourceBlockByHeight(view chain.View, height model.Height) (*chain.BlockIndex, error) {
	block, err := view.BlockByHeight(height)
	if err != nil {
		return nil, ierrors.Join(ErrNoSourceBlock, err)
	}

	return block, nil
}
