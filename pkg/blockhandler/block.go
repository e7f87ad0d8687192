package blockhandler

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/chain"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/stake"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

// Block is a block of the active chain together with the shielded data it carries.
type Block struct {
	Index        *chain.BlockIndex
	Transactions []*spend.Transaction
	// StakeInput is the kernel input of a proof of stake block, nil for proof of work blocks.
	StakeInput stake.Input
}

// revealedSerial is a coin spend of a block together with the transaction that revealed it.
type revealedSerial struct {
	coinSpend *zerocoin.CoinSpend
	txID      model.Identifier
}

// mintOutput is a commitment created by a block.
type mintOutput struct {
	coin *zerocoin.PublicCoin
	txID model.Identifier
}

// coinSpends returns all coin spends of the block. The coin spend of a shielded stake input is revealed
// by the coinstake transaction, which is identified by the block.
func (b *Block) coinSpends() ([]*revealedSerial, error) {
	var revealed []*revealedSerial

	if shielded, isShielded := b.StakeInput.(*stake.ShieldedInput); isShielded {
		if shielded.CoinSpend() == nil {
			return nil, ierrors.Wrap(ErrInvalidStakeInput, "shielded stake input without coin spend")
		}

		revealed = append(revealed, &revealedSerial{coinSpend: shielded.CoinSpend(), txID: b.Index.ID})
	}

	for _, transaction := range b.Transactions {
		for _, coinSpend := range transaction.CoinSpends {
			revealed = append(revealed, &revealedSerial{coinSpend: coinSpend, txID: transaction.ID})
		}
	}

	return revealed, nil
}

// mintOutputs returns the public coins of all mint outputs in block order.
func (b *Block) mintOutputs() ([]*mintOutput, error) {
	var mints []*mintOutput

	for _, transaction := range b.Transactions {
		for index, output := range transaction.Outputs {
			if !output.IsMint() {
				continue
			}

			denomination := zerocoin.AmountToDenomination(output.Value)
			if !denomination.IsValid() {
				return nil, ierrors.Wrapf(ErrInvalidMintOutput, "output %d of %s has no denomination for value %d", index, transaction.ID.Alias(), output.Value)
			}

			mints = append(mints, &mintOutput{
				coin: &zerocoin.PublicCoin{
					Denomination: denomination,
					Value:        new(big.Int).SetBytes(output.Commitment),
				},
				txID: transaction.ID,
			})
		}
	}

	return mints, nil
}
