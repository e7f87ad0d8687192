package mintledger

import (
	"sort"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// MintConsumer is a function that consumes a mint.
// Returning false from this function indicates to abort the iteration.
type MintConsumer func(mint *zerocoin.Mint) bool

// Mints are mints ordered by denomination, height and commitment.
type Mints []*zerocoin.Mint

func (l Mints) Len() int {
	return len(l)
}

func (l Mints) Less(i, j int) bool {
	if l[i].Denomination != l[j].Denomination {
		return l[i].Denomination.Value() < l[j].Denomination.Value()
	}

	if l[i].Height != l[j].Height {
		return l[i].Height < l[j].Height
	}

	return l[i].Commitment.Cmp(l[j].Commitment) < 0
}

func (l Mints) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// Value returns the sum of the mints in base units.
func (l Mints) Value() int64 {
	var total int64
	for _, mint := range l {
		total += mint.Denomination.Amount()
	}

	return total
}

func (m *Manager) forEachMintKeyWithoutLocking(prefix byte, consumer func(commitmentID model.Identifier) bool) error {
	var innerErr error
	if err := m.store.IterateKeys([]byte{prefix}, func(key kvstore.Key) bool {
		commitmentID, _, err := model.IdentifierFromBytes(key[1:])
		if err != nil {
			innerErr = err

			return false
		}

		return consumer(commitmentID)
	}); err != nil {
		return err
	}

	return innerErr
}

func (m *Manager) mintsWithoutLocking(prefix byte) (Mints, error) {
	var commitmentIDs []model.Identifier
	if err := m.forEachMintKeyWithoutLocking(prefix, func(commitmentID model.Identifier) bool {
		commitmentIDs = append(commitmentIDs, commitmentID)

		return true
	}); err != nil {
		return nil, err
	}

	mints := make(Mints, 0, len(commitmentIDs))
	for _, commitmentID := range commitmentIDs {
		mint, err := m.readMintWithoutLocking(commitmentID)
		if err != nil {
			return nil, err
		}

		mints = append(mints, mint)
	}

	sort.Sort(mints)

	return mints, nil
}

// ForEachMint iterates over all mints, spent and unspent, in ledger order.
func (m *Manager) ForEachMint(consumer MintConsumer) error {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	mints, err := m.mintsWithoutLocking(StoreKeyPrefixMint)
	if err != nil {
		return err
	}

	for _, mint := range mints {
		if !consumer(mint) {
			break
		}
	}

	return nil
}

// ForEachSpendable passes the unspent mints that are deeper than minConfirmations to the consumer,
// ordered by denomination, then height, then commitment.
func (m *Manager) ForEachSpendable(minConfirmations model.Height, consumer MintConsumer) error {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	tip, err := m.TipHeightWithoutLocking()
	if err != nil {
		return err
	}

	mints, err := m.mintsWithoutLocking(StoreKeyPrefixMintUnspent)
	if err != nil {
		return err
	}

	for _, mint := range mints {
		if !m.IsMintSpendable(mint, tip, minConfirmations) {
			continue
		}

		if !consumer(mint) {
			break
		}
	}

	return nil
}

// ListSpendable returns all spendable mints in the order of ForEachSpendable.
func (m *Manager) ListSpendable(minConfirmations model.Height) (Mints, error) {
	var mints Mints
	if err := m.ForEachSpendable(minConfirmations, func(mint *zerocoin.Mint) bool {
		mints = append(mints, mint)

		return true
	}); err != nil {
		return nil, err
	}

	return mints, nil
}

// UnspentMints returns all unspent mints regardless of their depth.
func (m *Manager) UnspentMints() (Mints, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.mintsWithoutLocking(StoreKeyPrefixMintUnspent)
}

// SpentMints returns all spent mints.
func (m *Manager) SpentMints() (Mints, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.mintsWithoutLocking(StoreKeyPrefixMintSpent)
}

// DenominationBalance counts the unspent mints of a denomination per maturity bucket.
type DenominationBalance struct {
	Confirmed   int
	Unconfirmed int
	Immature    int
}

// Balance is the shielded balance of the wallet.
type Balance struct {
	ByDenomination map[zerocoin.Denomination]*DenominationBalance

	// values in base units
	ConfirmedValue   int64
	UnconfirmedValue int64
	ImmatureValue    int64
}

// Total returns the value of all unspent mints.
func (b *Balance) Total() int64 {
	return b.ConfirmedValue + b.UnconfirmedValue + b.ImmatureValue
}

// BalanceByDenomination partitions the unspent mints into confirmed, unconfirmed and immature buckets.
func (m *Manager) BalanceByDenomination() (*Balance, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	tip, err := m.TipHeightWithoutLocking()
	if err != nil {
		return nil, err
	}

	mints, err := m.mintsWithoutLocking(StoreKeyPrefixMintUnspent)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to compute balance")
	}

	balance := &Balance{
		ByDenomination: make(map[zerocoin.Denomination]*DenominationBalance, len(zerocoin.Denominations)),
	}
	for _, denomination := range zerocoin.Denominations {
		balance.ByDenomination[denomination] = new(DenominationBalance)
	}

	for _, mint := range mints {
		bucket := balance.ByDenomination[mint.Denomination]
		depth := mint.Depth(tip)

		switch {
		case !mint.IsConfirmed() || depth <= m.params.MintRequiredConfirmations:
			bucket.Unconfirmed++
			balance.UnconfirmedValue += mint.Denomination.Amount()
		case depth <= m.params.Maturity(mint.Denomination):
			bucket.Immature++
			balance.ImmatureValue += mint.Denomination.Amount()
		default:
			bucket.Confirmed++
			balance.ConfirmedValue += mint.Denomination.Amount()
		}
	}

	return balance, nil
}
