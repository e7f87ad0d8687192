//nolint:forcetypeassert,scopelint // we don't care about these linters in test cases
package spend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger/tpkg"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

func TestMintEngine_Mint(t *testing.T) {
	tf := newTestFramework(t)
	engine := spend.NewMintEngine(log.NewLogger(), tf.ledger, tf.gate, tf.wallet)

	inputs := []model.OutPoint{{TxID: tpkg.RandIdentifier(), Index: 1}}
	transaction, err := engine.Mint(16*zerocoin.Coin+zerocoin.Coin/4, &spend.CoinControl{Inputs: inputs})
	require.NoError(t, err)
	require.Equal(t, inputs, transaction.Inputs)
	require.Equal(t, zerocoin.Coin/4, transaction.Fee)
	require.Equal(t, 16*zerocoin.Coin, transaction.OutputValue())
	require.Len(t, tf.wallet.committed, 1)

	denominations := make([]zerocoin.Denomination, 0, len(transaction.Mints))
	for i, mint := range transaction.Mints {
		denominations = append(denominations, mint.Denomination)
		require.True(t, transaction.Outputs[i].IsMint())
		require.Equal(t, transaction.ID, mint.TxID)

		stored, err := tf.ledger.MintByCommitment(mint.ID())
		require.NoError(t, err)
		require.False(t, stored.IsConfirmed())
		require.False(t, stored.Spent)
	}
	require.Equal(t, []zerocoin.Denomination{zerocoin.DenominationTen, zerocoin.DenominationFive, zerocoin.DenominationOne}, denominations)

	balance, err := tf.ledger.BalanceByDenomination()
	require.NoError(t, err)
	require.Equal(t, 16*zerocoin.Coin, balance.UnconfirmedValue)
}

func TestMintEngine_Rejections(t *testing.T) {
	tf := newTestFramework(t)
	engine := spend.NewMintEngine(log.NewLogger(), tf.ledger, tf.gate, tf.wallet)

	_, err := engine.Mint(zerocoin.Coin/2, nil)
	require.ErrorIs(t, err, zerocoin.ErrAmountBelowSmallestDenomination)

	_, err = engine.Mint(-1, nil)
	require.ErrorIs(t, err, zerocoin.ErrInvalidAmount)

	tf.wallet.locked = true
	_, err = engine.Mint(zerocoin.Coin, nil)
	require.ErrorIs(t, err, spend.ErrWalletLocked)

	tf.gate.maintenance = true
	_, err = engine.Mint(zerocoin.Coin, nil)
	require.ErrorIs(t, err, spend.ErrMaintenanceMode)

	require.Empty(t, tf.wallet.committed)

	mints, err := tf.ledger.UnspentMints()
	require.NoError(t, err)
	require.Empty(t, mints)
}
