package spend_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger/tpkg"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

func denominationsOf(mints mintledger.Mints) []zerocoin.Denomination {
	denominations := make([]zerocoin.Denomination, len(mints))
	for i, mint := range mints {
		denominations[i] = mint.Denomination
	}

	return denominations
}

func TestSelectMints(t *testing.T) {
	spendable := mintledger.Mints{
		tpkg.RandMint(zerocoin.DenominationOne, 10),
		tpkg.RandMint(zerocoin.DenominationOne, 11),
		tpkg.RandMint(zerocoin.DenominationFive, 10),
		tpkg.RandMint(zerocoin.DenominationTen, 10),
		tpkg.RandMint(zerocoin.DenominationOneHundred, 10),
	}

	tests := []struct {
		name           string
		amount         int64
		minimizeChange bool
		expected       []zerocoin.Denomination
	}{
		{"largest first", 6 * zerocoin.Coin, false, []zerocoin.Denomination{zerocoin.DenominationOneHundred}},
		{"exact", 6 * zerocoin.Coin, true, []zerocoin.Denomination{zerocoin.DenominationFive, zerocoin.DenominationOne}},
		{"smallest covering remainder", 14 * zerocoin.Coin, true, []zerocoin.Denomination{
			zerocoin.DenominationTen, zerocoin.DenominationOne, zerocoin.DenominationOne, zerocoin.DenominationFive,
		}},
		{"fractional amount", zerocoin.Coin / 2, true, []zerocoin.Denomination{zerocoin.DenominationOne}},
		{"everything", 117 * zerocoin.Coin, false, []zerocoin.Denomination{
			zerocoin.DenominationOneHundred, zerocoin.DenominationTen, zerocoin.DenominationFive, zerocoin.DenominationOne, zerocoin.DenominationOne,
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			selected := spend.SelectMints(spendable, test.amount, test.minimizeChange)
			require.Equal(t, test.expected, denominationsOf(selected))
			require.GreaterOrEqual(t, selected.Value(), test.amount)
		})
	}

	require.Nil(t, spend.SelectMints(spendable, 118*zerocoin.Coin, false))
	require.Nil(t, spend.SelectMints(spendable, 118*zerocoin.Coin, true))
}
