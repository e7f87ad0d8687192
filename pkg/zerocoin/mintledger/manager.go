package mintledger

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

var (
	// ErrDuplicateCommitment is returned if a mint with the same commitment was already recorded.
	ErrDuplicateCommitment = ierrors.New("duplicate commitment")
	// ErrUnknownSerial is returned if no mint with the given serial hash exists.
	ErrUnknownSerial = ierrors.New("unknown serial")
	// ErrUnknownCommitment is returned if no mint with the given commitment exists.
	ErrUnknownCommitment = ierrors.New("unknown commitment")
)

// Manager keeps track of the shielded coins owned by the local wallet.
type Manager struct {
	store     kvstore.KVStore
	storeLock syncutils.RWMutex

	params *zerocoin.Parameters
}

func New(store kvstore.KVStore, params *zerocoin.Parameters) *Manager {
	return &Manager{
		store:  store,
		params: params,
	}
}

// KVStore returns the underlying KVStore.
func (m *Manager) KVStore() kvstore.KVStore {
	return m.store
}

func (m *Manager) Parameters() *zerocoin.Parameters {
	return m.params
}

// ClearLedgerState removes all mints from the ledger.
func (m *Manager) ClearLedgerState() (err error) {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	defer func() {
		if errFlush := m.store.Flush(); err == nil && errFlush != nil {
			err = errFlush
		}
	}()

	return m.store.Clear()
}

func (m *Manager) ReadLockLedger() {
	m.storeLock.RLock()
}

func (m *Manager) ReadUnlockLedger() {
	m.storeLock.RUnlock()
}

func (m *Manager) WriteLockLedger() {
	m.storeLock.Lock()
}

func (m *Manager) WriteUnlockLedger() {
	m.storeLock.Unlock()
}

func (m *Manager) StoreTipHeightWithoutLocking(height model.Height) error {
	return m.store.Set([]byte{StoreKeyPrefixTipHeight}, height.Bytes())
}

// StoreTipHeight sets the chain height the maturity of all mints is measured against.
func (m *Manager) StoreTipHeight(height model.Height) error {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	return m.StoreTipHeightWithoutLocking(height)
}

func (m *Manager) TipHeightWithoutLocking() (model.Height, error) {
	value, err := m.store.Get([]byte{StoreKeyPrefixTipHeight})
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			// no block was connected yet => return 0
			return 0, nil
		}

		return 0, ierrors.Errorf("failed to load tip height: %w", err)
	}

	height, _, err := model.HeightFromBytes(value)

	return height, err
}

func (m *Manager) TipHeight() (model.Height, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.TipHeightWithoutLocking()
}

// RecordMint inserts a new unspent mint.
func (m *Manager) RecordMint(mint *zerocoin.Mint) error {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	mutations, err := m.store.Batched()
	if err != nil {
		return err
	}

	if err := m.recordMintWithoutLocking(mint, mutations); err != nil {
		mutations.Cancel()

		return err
	}

	return mutations.Commit()
}

// ApplySpend records the change mints of a committed spend and marks the spent mints in a single batch.
// Either all changes are applied or none.
func (m *Manager) ApplySpend(serialHashes []model.Identifier, changeMints []*zerocoin.Mint) error {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	spentMints := make([]*zerocoin.Mint, 0, len(serialHashes))
	for _, serialHash := range serialHashes {
		mint, err := m.mintBySerialHashWithoutLocking(serialHash)
		if err != nil {
			return err
		}

		if !mint.Spent {
			spentMints = append(spentMints, mint)
		}
	}

	recorded := make(map[model.Identifier]struct{}, len(changeMints))
	for _, mint := range changeMints {
		if _, exists := recorded[mint.ID()]; exists {
			return ierrors.Wrapf(ErrDuplicateCommitment, "commitment %s", mint.ID().Alias())
		}
		recorded[mint.ID()] = struct{}{}
	}

	mutations, err := m.store.Batched()
	if err != nil {
		return err
	}

	for _, mint := range changeMints {
		if err := m.recordMintWithoutLocking(mint, mutations); err != nil {
			mutations.Cancel()

			return err
		}
	}

	for _, mint := range spentMints {
		mint.Spent = true

		if err := storeMint(mint, mutations); err != nil {
			mutations.Cancel()

			return err
		}
	}

	return mutations.Commit()
}

func (m *Manager) recordMintWithoutLocking(mint *zerocoin.Mint, mutations kvstore.BatchedMutations) error {
	if !mint.Denomination.IsValid() {
		return zerocoin.ErrInvalidDenomination
	}

	if has, err := m.store.Has(mintKey(mint.ID())); err != nil {
		return ierrors.Wrap(err, "failed to check mint")
	} else if has {
		return ierrors.Wrapf(ErrDuplicateCommitment, "commitment %s", mint.ID().Alias())
	}

	if has, err := m.store.Has(serialLookupKey(mint.SerialHash)); err != nil {
		return ierrors.Wrap(err, "failed to check serial lookup")
	} else if has {
		return ierrors.Wrapf(ErrDuplicateCommitment, "serial hash %s already belongs to a mint", mint.SerialHash.Alias())
	}

	if err := storeMint(mint, mutations); err != nil {
		return err
	}

	return mutations.Set(serialLookupKey(mint.SerialHash), mint.ID().Bytes())
}

// ConfirmMint sets the height of the block that contains the mint transaction.
func (m *Manager) ConfirmMint(commitmentID model.Identifier, height model.Height) error {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	mint, err := m.readMintWithoutLocking(commitmentID)
	if err != nil {
		return err
	}

	mint.Height = height

	return m.store.Set(mintKey(commitmentID), mint.Bytes())
}

// MarkSpent transitions the mint with the given serial hash to spent. Marking a spent mint again is a no-op.
func (m *Manager) MarkSpent(serialHash model.Identifier) error {
	return m.MarkSpentBatch([]model.Identifier{serialHash})
}

// MarkSpentBatch marks all mints with the given serial hashes as spent or none of them.
func (m *Manager) MarkSpentBatch(serialHashes []model.Identifier) error {
	return m.ApplySpend(serialHashes, nil)
}

func (m *Manager) setSpentWithoutLocking(mints []*zerocoin.Mint, spent bool) error {
	if len(mints) == 0 {
		return nil
	}

	mutations, err := m.store.Batched()
	if err != nil {
		return err
	}

	for _, mint := range mints {
		mint.Spent = spent

		if err := storeMint(mint, mutations); err != nil {
			mutations.Cancel()

			return err
		}
	}

	return mutations.Commit()
}

func (m *Manager) MintBySerialHash(serialHash model.Identifier) (*zerocoin.Mint, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.mintBySerialHashWithoutLocking(serialHash)
}

func (m *Manager) mintBySerialHashWithoutLocking(serialHash model.Identifier) (*zerocoin.Mint, error) {
	value, err := m.store.Get(serialLookupKey(serialHash))
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ierrors.Wrapf(ErrUnknownSerial, "serial hash %s", serialHash.Alias())
		}

		return nil, ierrors.Wrap(err, "failed to load serial lookup")
	}

	commitmentID, _, err := model.IdentifierFromBytes(value)
	if err != nil {
		return nil, err
	}

	return m.readMintWithoutLocking(commitmentID)
}

func (m *Manager) MintByCommitment(commitmentID model.Identifier) (*zerocoin.Mint, error) {
	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.readMintWithoutLocking(commitmentID)
}

func (m *Manager) readMintWithoutLocking(commitmentID model.Identifier) (*zerocoin.Mint, error) {
	value, err := m.store.Get(mintKey(commitmentID))
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ierrors.Wrapf(ErrUnknownCommitment, "commitment %s", commitmentID.Alias())
		}

		return nil, ierrors.Wrap(err, "failed to load mint")
	}

	return zerocoin.MintFromBytes(value)
}

// IsMintSpendable checks whether the mint is unspent and deep enough for the given confirmations.
func (m *Manager) IsMintSpendable(mint *zerocoin.Mint, tip model.Height, minConfirmations model.Height) bool {
	return !mint.Spent && mint.IsConfirmed() && mint.Depth(tip) > minConfirmations
}

func mintKey(commitmentID model.Identifier) []byte {
	return append([]byte{StoreKeyPrefixMint}, commitmentID[:]...)
}

func spentKey(commitmentID model.Identifier) []byte {
	return append([]byte{StoreKeyPrefixMintSpent}, commitmentID[:]...)
}

func unspentKey(commitmentID model.Identifier) []byte {
	return append([]byte{StoreKeyPrefixMintUnspent}, commitmentID[:]...)
}

func serialLookupKey(serialHash model.Identifier) []byte {
	return append([]byte{StoreKeyPrefixSerialLookup}, serialHash[:]...)
}

func storeMint(mint *zerocoin.Mint, mutations kvstore.BatchedMutations) error {
	id := mint.ID()

	if err := mutations.Set(mintKey(id), mint.Bytes()); err != nil {
		return err
	}

	if mint.Spent {
		if err := mutations.Delete(unspentKey(id)); err != nil {
			return err
		}

		return mutations.Set(spentKey(id), []byte{})
	}

	if err := mutations.Delete(spentKey(id)); err != nil {
		return err
	}

	return mutations.Set(unspentKey(id), []byte{})
}
