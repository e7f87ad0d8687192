package zerocoin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

func TestDenominationRoundTrip(t *testing.T) {
	for _, denomination := range zerocoin.Denominations {
		require.Equal(t, denomination, zerocoin.DenominationOf(zerocoin.ValueOf(denomination)))
		require.Equal(t, denomination, zerocoin.AmountToDenomination(denomination.Amount()))
		require.True(t, denomination.IsValid())
	}
}

func TestDenominationOfUnknownValues(t *testing.T) {
	for _, value := range []int64{-5, 0, 2, 3, 4, 6, 25, 99, 101, 499, 5001, 10000} {
		require.Equal(t, zerocoin.DenominationInvalid, zerocoin.DenominationOf(value), "value %d", value)
	}

	require.Equal(t, zerocoin.DenominationInvalid, zerocoin.AmountToDenomination(zerocoin.Coin+1))
	require.Equal(t, int64(0), zerocoin.ValueOf(zerocoin.DenominationInvalid))
	require.False(t, zerocoin.DenominationInvalid.IsValid())
	require.Equal(t, "invalid", zerocoin.DenominationInvalid.String())
}

func TestDenominationsAreOrdered(t *testing.T) {
	for i := 1; i < len(zerocoin.Denominations); i++ {
		require.Less(t, zerocoin.Denominations[i-1].Value(), zerocoin.Denominations[i].Value())
	}
}

func TestDenominationsForAmount(t *testing.T) {
	tests := []struct {
		name     string
		coins    int64
		expected []zerocoin.Denomination
	}{
		{"one", 1, []zerocoin.Denomination{zerocoin.DenominationOne}},
		{"sixteen", 16, []zerocoin.Denomination{zerocoin.DenominationTen, zerocoin.DenominationFive, zerocoin.DenominationOne}},
		{"large", 11_556, []zerocoin.Denomination{
			zerocoin.DenominationFiveThousand, zerocoin.DenominationFiveThousand, zerocoin.DenominationOneThousand,
			zerocoin.DenominationFiveHundred, zerocoin.DenominationFifty, zerocoin.DenominationFive, zerocoin.DenominationOne,
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			denominations, err := zerocoin.DenominationsForAmount(test.coins)
			require.NoError(t, err)
			require.Equal(t, test.expected, denominations)
		})
	}

	_, err := zerocoin.DenominationsForAmount(0)
	require.ErrorIs(t, err, zerocoin.ErrAmountBelowSmallestDenomination)
}
