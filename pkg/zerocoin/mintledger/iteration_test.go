//nolint:forcetypeassert,varnamelen,revive,exhaustruct // we don't care about these linters in test cases
package mintledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger/tpkg"
)

func TestListSpendableOrdering(t *testing.T) {
	manager := newManager(t, 200)

	ten := tpkg.RandMint(zerocoin.DenominationTen, 100)
	one := tpkg.RandMint(zerocoin.DenominationOne, 50)
	require.NoError(t, manager.RecordMint(ten))
	require.NoError(t, manager.RecordMint(one))

	spendable, err := manager.ListSpendable(0)
	require.NoError(t, err)
	require.Len(t, spendable, 2)
	require.Equal(t, zerocoin.DenominationOne, spendable[0].Denomination)
	require.EqualValues(t, 50, spendable[0].Height)
	require.Equal(t, zerocoin.DenominationTen, spendable[1].Denomination)
	require.EqualValues(t, 100, spendable[1].Height)
}

func TestListSpendableIsDeterministic(t *testing.T) {
	manager := newManager(t, 500)

	for i := 0; i < 20; i++ {
		require.NoError(t, manager.RecordMint(tpkg.RandMint(tpkg.RandDenomination(), tpkg.RandHeight(400))))
	}

	first, err := manager.ListSpendable(0)
	require.NoError(t, err)
	require.Len(t, first, 20)

	for i := 1; i < len(first); i++ {
		previous, current := first[i-1], first[i]
		require.LessOrEqual(t, previous.Denomination.Value(), current.Denomination.Value())
		if previous.Denomination == current.Denomination {
			require.LessOrEqual(t, previous.Height, current.Height)
			if previous.Height == current.Height {
				require.Negative(t, previous.Commitment.Cmp(current.Commitment))
			}
		}
	}

	for i := 0; i < 5; i++ {
		again, err := manager.ListSpendable(0)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestListSpendableConfirmations(t *testing.T) {
	manager := newManager(t, 100)

	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationOne, 90)))
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationOne, 50)))
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationOne, 0)))

	spent := tpkg.RandMint(zerocoin.DenominationOne, 10)
	require.NoError(t, manager.RecordMint(spent))
	require.NoError(t, manager.MarkSpent(spent.SerialHash))

	spendable, err := manager.ListSpendable(10)
	require.NoError(t, err)
	require.Len(t, spendable, 1)
	require.EqualValues(t, 50, spendable[0].Height)

	// depth has to exceed the required confirmations
	spendable, err = manager.ListSpendable(9)
	require.NoError(t, err)
	require.Len(t, spendable, 2)

	var visited int
	require.NoError(t, manager.ForEachSpendable(0, func(*zerocoin.Mint) bool {
		visited++

		return false
	}))
	require.Equal(t, 1, visited)
}

func TestBalanceByDenomination(t *testing.T) {
	// required confirmations 20, maturity 40
	manager := newManager(t, 1000)

	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationTen, 0)))   // unconfirmed
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationTen, 985))) // unconfirmed
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationTen, 970))) // immature
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationTen, 100))) // confirmed
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationOne, 100))) // confirmed

	spent := tpkg.RandMint(zerocoin.DenominationFiveThousand, 100)
	require.NoError(t, manager.RecordMint(spent))
	require.NoError(t, manager.MarkSpent(spent.SerialHash))

	balance, err := manager.BalanceByDenomination()
	require.NoError(t, err)

	require.Equal(t, 2, balance.ByDenomination[zerocoin.DenominationTen].Unconfirmed)
	require.Equal(t, 1, balance.ByDenomination[zerocoin.DenominationTen].Immature)
	require.Equal(t, 1, balance.ByDenomination[zerocoin.DenominationTen].Confirmed)
	require.Equal(t, 1, balance.ByDenomination[zerocoin.DenominationOne].Confirmed)
	require.Zero(t, balance.ByDenomination[zerocoin.DenominationFiveThousand].Confirmed)

	require.Equal(t, 11*zerocoin.Coin, balance.ConfirmedValue)
	require.Equal(t, 20*zerocoin.Coin, balance.UnconfirmedValue)
	require.Equal(t, 10*zerocoin.Coin, balance.ImmatureValue)
	require.Equal(t, 41*zerocoin.Coin, balance.Total())
}
