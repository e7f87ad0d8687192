package spend

import (
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// Transaction is a shielded mint or spend transaction ready to be committed by the wallet.
type Transaction struct {
	ID model.Identifier
	// Inputs are the transparent inputs selected by coin control.
	Inputs     []model.OutPoint
	CoinSpends []*zerocoin.CoinSpend
	Outputs    []*model.TxOut
	// Mints are the shielded coins created by the outputs.
	Mints []*zerocoin.Mint
	// Fee is the part of the inputs that is not assigned to any output.
	Fee int64
}

func newTransaction(inputs []model.OutPoint, coinSpends []*zerocoin.CoinSpend, outputs []*model.TxOut, mints []*zerocoin.Mint, fee int64) *Transaction {
	transaction := &Transaction{
		Inputs:     inputs,
		CoinSpends: coinSpends,
		Outputs:    outputs,
		Mints:      mints,
		Fee:        fee,
	}

	var data []byte
	for _, input := range inputs {
		data = append(data, input.Bytes()...)
	}
	for _, coinSpend := range coinSpends {
		data = append(data, coinSpend.Bytes()...)
	}
	outputsHash := model.OutputsHash(outputs)
	data = append(data, outputsHash[:]...)

	transaction.ID = model.IdentifierFromData(data)
	for _, mint := range mints {
		mint.TxID = transaction.ID
	}

	return transaction
}

// OutputValue sums the values of all outputs.
func (t *Transaction) OutputValue() (total int64) {
	for _, output := range t.Outputs {
		total += output.Value
	}

	return total
}

// SpentValue sums the values of all coin spends.
func (t *Transaction) SpentValue() (total int64) {
	for _, coinSpend := range t.CoinSpends {
		total += coinSpend.Denomination.Amount()
	}

	return total
}

// mintOutputs creates the outputs and unconfirmed mints for the given denominations.
func mintOutputs(denominations []zerocoin.Denomination) ([]*model.TxOut, []*zerocoin.Mint, error) {
	outputs := make([]*model.TxOut, 0, len(denominations))
	mints := make([]*zerocoin.Mint, 0, len(denominations))

	for _, denomination := range denominations {
		coin, err := zerocoin.GeneratePrivateCoin(denomination, zerocoin.CurrentCoinVersion)
		if err != nil {
			return nil, nil, err
		}

		outputs = append(outputs, &model.TxOut{
			Value:      denomination.Amount(),
			Commitment: coin.PublicCoin.Value.Bytes(),
		})
		mints = append(mints, zerocoin.NewMint(coin, model.EmptyIdentifier))
	}

	return outputs, mints, nil
}
