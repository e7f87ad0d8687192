//nolint:forcetypeassert,varnamelen,revive,exhaustruct // we don't care about these linters in test cases
package mintledger_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger/tpkg"
)

func newManager(t *testing.T, tip model.Height) *mintledger.Manager {
	manager := mintledger.New(mapdb.NewMapDB(), zerocoin.NewParameters())
	require.NoError(t, manager.StoreTipHeight(tip))

	return manager
}

func TestRecordMint(t *testing.T) {
	manager := newManager(t, 100)

	mint := tpkg.RandMint(zerocoin.DenominationFifty, 10)
	require.NoError(t, manager.RecordMint(mint))
	require.ErrorIs(t, manager.RecordMint(mint), mintledger.ErrDuplicateCommitment)

	loaded, err := manager.MintByCommitment(mint.ID())
	require.NoError(t, err)
	require.Equal(t, mint, loaded)

	loaded, err = manager.MintBySerialHash(mint.SerialHash)
	require.NoError(t, err)
	require.Equal(t, mint, loaded)

	_, err = manager.MintBySerialHash(tpkg.RandIdentifier())
	require.ErrorIs(t, err, mintledger.ErrUnknownSerial)

	_, err = manager.MintByCommitment(tpkg.RandIdentifier())
	require.ErrorIs(t, err, mintledger.ErrUnknownCommitment)
}

func TestConfirmMint(t *testing.T) {
	manager := newManager(t, 100)

	mint := tpkg.RandMint(zerocoin.DenominationOne, 0)
	require.NoError(t, manager.RecordMint(mint))

	spendable, err := manager.ListSpendable(0)
	require.NoError(t, err)
	require.Empty(t, spendable)

	require.NoError(t, manager.ConfirmMint(mint.ID(), 40))

	spendable, err = manager.ListSpendable(0)
	require.NoError(t, err)
	require.Len(t, spendable, 1)
	require.EqualValues(t, 40, spendable[0].Height)
}

func TestMarkSpent(t *testing.T) {
	manager := newManager(t, 100)

	mint := tpkg.RandMint(zerocoin.DenominationFive, 10)
	require.NoError(t, manager.RecordMint(mint))

	require.ErrorIs(t, manager.MarkSpent(tpkg.RandIdentifier()), mintledger.ErrUnknownSerial)

	require.NoError(t, manager.MarkSpent(mint.SerialHash))
	require.NoError(t, manager.MarkSpent(mint.SerialHash))

	loaded, err := manager.MintBySerialHash(mint.SerialHash)
	require.NoError(t, err)
	require.True(t, loaded.Spent)

	spent, err := manager.SpentMints()
	require.NoError(t, err)
	require.Len(t, spent, 1)

	unspent, err := manager.UnspentMints()
	require.NoError(t, err)
	require.Empty(t, unspent)
}

func TestMarkSpentBatchIsAtomic(t *testing.T) {
	manager := newManager(t, 100)

	first := tpkg.RandMint(zerocoin.DenominationTen, 10)
	second := tpkg.RandMint(zerocoin.DenominationTen, 11)
	require.NoError(t, manager.RecordMint(first))
	require.NoError(t, manager.RecordMint(second))

	err := manager.MarkSpentBatch([]model.Identifier{first.SerialHash, tpkg.RandIdentifier()})
	require.ErrorIs(t, err, mintledger.ErrUnknownSerial)

	unspent, err := manager.UnspentMints()
	require.NoError(t, err)
	require.Len(t, unspent, 2)

	require.NoError(t, manager.MarkSpentBatch([]model.Identifier{first.SerialHash, second.SerialHash}))

	unspent, err = manager.UnspentMints()
	require.NoError(t, err)
	require.Empty(t, unspent)
}

func TestApplySpendIsAtomic(t *testing.T) {
	manager := newManager(t, 100)

	spent := tpkg.RandMint(zerocoin.DenominationTen, 10)
	existing := tpkg.RandMint(zerocoin.DenominationOne, 11)
	require.NoError(t, manager.RecordMint(spent))
	require.NoError(t, manager.RecordMint(existing))

	change := tpkg.RandMint(zerocoin.DenominationFive, 0)

	// a change mint that can not be recorded leaves the spent mint untouched
	err := manager.ApplySpend([]model.Identifier{spent.SerialHash}, []*zerocoin.Mint{change, existing})
	require.ErrorIs(t, err, mintledger.ErrDuplicateCommitment)

	stored, err := manager.MintBySerialHash(spent.SerialHash)
	require.NoError(t, err)
	require.False(t, stored.Spent)
	_, err = manager.MintBySerialHash(change.SerialHash)
	require.Error(t, err)

	// an unknown serial leaves the change unrecorded
	err = manager.ApplySpend([]model.Identifier{tpkg.RandIdentifier()}, []*zerocoin.Mint{change})
	require.ErrorIs(t, err, mintledger.ErrUnknownSerial)
	_, err = manager.MintBySerialHash(change.SerialHash)
	require.Error(t, err)

	require.ErrorIs(t, manager.ApplySpend(nil, []*zerocoin.Mint{change, change}), mintledger.ErrDuplicateCommitment)

	require.NoError(t, manager.ApplySpend([]model.Identifier{spent.SerialHash}, []*zerocoin.Mint{change}))

	stored, err = manager.MintBySerialHash(spent.SerialHash)
	require.NoError(t, err)
	require.True(t, stored.Spent)

	stored, err = manager.MintBySerialHash(change.SerialHash)
	require.NoError(t, err)
	require.False(t, stored.Spent)
}

type memberIndex map[string]model.Height

func (m memberIndex) MemberHeight(commitment *big.Int) (model.Height, error) {
	height, exists := m[commitment.String()]
	if !exists {
		return 0, accumulator.ErrUnknownMember
	}

	return height, nil
}

type serialIndex map[model.Identifier]bool

func (s serialIndex) IsSpent(serialHash model.Identifier) (bool, error) {
	return s[serialHash], nil
}

func TestResetMintsAndSpent(t *testing.T) {
	manager := newManager(t, 100)

	onChain := tpkg.RandMint(zerocoin.DenominationOne, 0)
	orphaned := tpkg.RandMint(zerocoin.DenominationOne, 30)
	spentOnChain := tpkg.RandMint(zerocoin.DenominationFive, 20)
	require.NoError(t, manager.RecordMint(onChain))
	require.NoError(t, manager.RecordMint(orphaned))
	require.NoError(t, manager.RecordMint(spentOnChain))
	require.NoError(t, manager.MarkSpent(orphaned.SerialHash))

	updated, err := manager.ResetMints(memberIndex{
		onChain.Commitment.String():      12,
		spentOnChain.Commitment.String(): 20,
	})
	require.NoError(t, err)
	require.Equal(t, 2, updated)

	updated, err = manager.ResetSpent(serialIndex{spentOnChain.SerialHash: true})
	require.NoError(t, err)
	require.Equal(t, 2, updated)

	loaded, err := manager.MintByCommitment(onChain.ID())
	require.NoError(t, err)
	require.EqualValues(t, 12, loaded.Height)

	loaded, err = manager.MintByCommitment(orphaned.ID())
	require.NoError(t, err)
	require.False(t, loaded.IsConfirmed())
	require.False(t, loaded.Spent)

	loaded, err = manager.MintByCommitment(spentOnChain.ID())
	require.NoError(t, err)
	require.True(t, loaded.Spent)
}

func TestClearLedgerState(t *testing.T) {
	manager := newManager(t, 100)
	require.NoError(t, manager.RecordMint(tpkg.RandMint(zerocoin.DenominationOne, 10)))
	require.NoError(t, manager.ClearLedgerState())

	require.NoError(t, manager.ForEachMint(func(*zerocoin.Mint) bool {
		require.Fail(t, "should not be called")

		return true
	}))
}
