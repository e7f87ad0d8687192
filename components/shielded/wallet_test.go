package shielded_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/zerostake/components/shielded"
	"github.com/iotaledger/zerostake/pkg/zerocoin/spend"
)

func TestWallet(t *testing.T) {
	wallet := shielded.NewWallet(false)

	address, err := wallet.NewAddress()
	require.NoError(t, err)
	require.True(t, wallet.Owns(address))
	require.False(t, wallet.Owns("unknown"))

	otherAddress, err := wallet.NewAddress()
	require.NoError(t, err)
	require.NotEqual(t, address, otherAddress)

	var committed []*spend.Transaction
	wallet.Events.TransactionCommitted.Hook(func(transaction *spend.Transaction) {
		committed = append(committed, transaction)
	})

	require.NoError(t, wallet.CommitTransaction(&spend.Transaction{}))
	require.Len(t, committed, 1)

	wallet.Lock()
	require.True(t, wallet.IsLocked())
	require.ErrorIs(t, wallet.CommitTransaction(&spend.Transaction{}), spend.ErrWalletLocked)
	require.Len(t, committed, 1)

	wallet.Unlock()
	require.False(t, wallet.IsLocked())
}
