package accumulator

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

var (
	// ErrCheckpointNotAppendOnly is returned if a checkpoint or member would be inserted below the latest checkpoint.
	ErrCheckpointNotAppendOnly = ierrors.New("checkpoints are append-only")
	// ErrCheckpointUnknown is returned if the referenced checkpoint does not exist locally.
	ErrCheckpointUnknown = ierrors.New("checkpoint unknown")
	// ErrCheckpointTooOld is returned if the referenced checkpoint is no longer accepted.
	ErrCheckpointTooOld = ierrors.New("checkpoint too old")
	// ErrUnknownMember is returned if a commitment was never added to the accumulator.
	ErrUnknownMember = ierrors.New("commitment is not an accumulator member")
	// ErrDuplicateMember is returned if a commitment is added twice.
	ErrDuplicateMember = ierrors.New("commitment is already an accumulator member")
)

// Store keeps the append-only member list and the checkpoints of every denomination.
type Store struct {
	store     kvstore.KVStore
	storeLock syncutils.RWMutex

	params            *zerocoin.Parameters
	accumulatorParams *zerocoin.AccumulatorParams
}

func NewStore(store kvstore.KVStore, params *zerocoin.Parameters, accumulatorParams *zerocoin.AccumulatorParams) *Store {
	return &Store{
		store:             store,
		params:            params,
		accumulatorParams: accumulatorParams,
	}
}

func (s *Store) Parameters() *zerocoin.Parameters {
	return s.params
}

func (s *Store) AccumulatorParameters() *zerocoin.AccumulatorParams {
	return s.accumulatorParams
}

// AddMint appends a commitment to the member list of its denomination.
func (s *Store) AddMint(coin *zerocoin.PublicCoin, height model.Height) error {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	if !coin.Denomination.IsValid() {
		return zerocoin.ErrInvalidDenomination
	}

	if err := s.accumulatorParams.ValidateCommitment(coin.Value); err != nil {
		return err
	}

	latest, err := s.latestCheckpointHeightWithoutLocking()
	if err != nil {
		return err
	}
	if height <= latest {
		return ierrors.Wrapf(ErrCheckpointNotAppendOnly, "mint at height %d is below checkpoint %d", height, latest)
	}

	if has, err := s.store.Has(memberLookupKey(coin.Value)); err != nil {
		return ierrors.Wrap(err, "failed to check member lookup")
	} else if has {
		return ErrDuplicateMember
	}

	state, err := s.runningStateWithoutLocking(coin.Denomination)
	if err != nil {
		return err
	}

	accumulator := zerocoin.AccumulatorFromValue(s.accumulatorParams, state.Value)
	if err := accumulator.Accumulate(coin.Value); err != nil {
		return err
	}

	newMember := &member{
		Denomination: coin.Denomination,
		Index:        state.MemberCount,
		Commitment:   coin.Value,
		Height:       height,
	}

	state.Value = accumulator.Value()
	state.MemberCount++
	state.LastMemberHeight = height

	mutations, err := s.store.Batched()
	if err != nil {
		return err
	}

	if err := mutations.Set(memberKey(newMember.Denomination, newMember.Index), newMember.value()); err != nil {
		mutations.Cancel()

		return err
	}

	if err := mutations.Set(memberLookupKey(newMember.Commitment), newMember.lookupValue()); err != nil {
		mutations.Cancel()

		return err
	}

	if err := mutations.Set(runningStateKey(coin.Denomination), state.bytes()); err != nil {
		mutations.Cancel()

		return err
	}

	return mutations.Commit()
}

// Checkpoint snapshots the accumulators of all denominations at the given height.
func (s *Store) Checkpoint(height model.Height) error {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	latest, err := s.latestCheckpointHeightWithoutLocking()
	if err != nil {
		return err
	}
	if height <= latest {
		return ierrors.Wrapf(ErrCheckpointNotAppendOnly, "checkpoint at height %d is not above %d", height, latest)
	}

	mutations, err := s.store.Batched()
	if err != nil {
		return err
	}

	for _, denomination := range zerocoin.Denominations {
		state, err := s.runningStateWithoutLocking(denomination)
		if err != nil {
			mutations.Cancel()

			return err
		}

		if state.LastMemberHeight > height {
			mutations.Cancel()

			return ierrors.Wrapf(ErrCheckpointNotAppendOnly, "denomination %s has members above height %d", denomination, height)
		}

		checkpoint := &Checkpoint{
			Denomination: denomination,
			Height:       height,
			Value:        state.Value,
			MemberCount:  state.MemberCount,
		}

		if err := mutations.Set(checkpoint.KVStorableKey(), checkpoint.KVStorableValue()); err != nil {
			mutations.Cancel()

			return err
		}
	}

	if err := mutations.Set([]byte{StoreKeyPrefixLatestCheckpoint}, height.Bytes()); err != nil {
		mutations.Cancel()

		return err
	}

	return mutations.Commit()
}

// CheckpointAt returns the checkpoint of a denomination at exactly the given height.
func (s *Store) CheckpointAt(denomination zerocoin.Denomination, height model.Height) (*Checkpoint, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	return s.checkpointAtWithoutLocking(denomination, height)
}

func (s *Store) checkpointAtWithoutLocking(denomination zerocoin.Denomination, height model.Height) (*Checkpoint, error) {
	key := checkpointKey(denomination, height)

	value, err := s.store.Get(key)
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ierrors.Wrapf(ErrCheckpointUnknown, "denomination %s at height %d", denomination, height)
		}

		return nil, ierrors.Wrapf(err, "failed to load checkpoint at height %d", height)
	}

	checkpoint := new(Checkpoint)
	if err := checkpoint.kvStorableLoad(key, value); err != nil {
		return nil, err
	}

	return checkpoint, nil
}

// LatestCheckpointHeight returns the height of the most recent checkpoint, 0 if there is none.
func (s *Store) LatestCheckpointHeight() (model.Height, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	return s.latestCheckpointHeightWithoutLocking()
}

func (s *Store) latestCheckpointHeightWithoutLocking() (model.Height, error) {
	value, err := s.store.Get([]byte{StoreKeyPrefixLatestCheckpoint})
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return 0, nil
		}

		return 0, ierrors.Wrap(err, "failed to load latest checkpoint height")
	}

	height, _, err := model.HeightFromBytes(value)

	return height, err
}

// LatestCheckpoint returns the most recent checkpoint of a denomination.
func (s *Store) LatestCheckpoint(denomination zerocoin.Denomination) (*Checkpoint, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	return s.latestCheckpointWithoutLocking(denomination)
}

func (s *Store) latestCheckpointWithoutLocking(denomination zerocoin.Denomination) (*Checkpoint, error) {
	latest, err := s.latestCheckpointHeightWithoutLocking()
	if err != nil {
		return nil, err
	}
	if latest == 0 {
		return nil, ierrors.Wrap(ErrCheckpointUnknown, "no checkpoint created yet")
	}

	return s.checkpointAtWithoutLocking(denomination, latest)
}

// CheckpointForSpend selects the checkpoint a coin minted at mintHeight is spent against.
// At MaxSecurityLevel this is the latest checkpoint, lower levels stop securityLevel checkpoint
// intervals after the mint.
func (s *Store) CheckpointForSpend(denomination zerocoin.Denomination, mintHeight model.Height, securityLevel int) (*Checkpoint, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	latest, err := s.latestCheckpointWithoutLocking(denomination)
	if err != nil {
		return nil, err
	}
	if latest.Height < mintHeight {
		return nil, ierrors.Wrapf(ErrCheckpointUnknown, "no checkpoint covers mint height %d yet", mintHeight)
	}

	if securityLevel >= zerocoin.MaxSecurityLevel {
		return latest, nil
	}

	bound := mintHeight + model.Height(securityLevel+1)*s.params.CheckpointInterval
	if bound >= latest.Height {
		return latest, nil
	}

	var selected *Checkpoint
	var innerErr error
	if err := s.store.Iterate([]byte{StoreKeyPrefixCheckpoint, byte(denomination)}, func(key kvstore.Key, value kvstore.Value) bool {
		checkpoint := new(Checkpoint)
		if innerErr = checkpoint.kvStorableLoad(key, value); innerErr != nil {
			return false
		}

		if checkpoint.Height >= mintHeight && checkpoint.Height <= bound && (selected == nil || checkpoint.Height > selected.Height) {
			selected = checkpoint
		}

		return true
	}); err != nil {
		return nil, err
	}
	if innerErr != nil {
		return nil, innerErr
	}

	if selected == nil {
		return nil, ierrors.Wrapf(ErrCheckpointUnknown, "no checkpoint between heights %d and %d", mintHeight, bound)
	}

	return selected, nil
}

// MemberHeight returns the height at which a commitment was added.
func (s *Store) MemberHeight(commitment *big.Int) (model.Height, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	m, err := s.memberWithoutLocking(commitment)
	if err != nil {
		return 0, err
	}

	return m.Height, nil
}

func (s *Store) memberWithoutLocking(commitment *big.Int) (*member, error) {
	value, err := s.store.Get(memberLookupKey(commitment))
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrUnknownMember
		}

		return nil, ierrors.Wrap(err, "failed to load member lookup")
	}

	return memberFromLookupValue(commitment, value)
}

// Rollback removes all members added above the given height. Checkpoints are final, so the height must
// not be below the latest checkpoint.
func (s *Store) Rollback(height model.Height) error {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	latest, err := s.latestCheckpointHeightWithoutLocking()
	if err != nil {
		return err
	}
	if height < latest {
		return ierrors.Wrapf(ErrCheckpointNotAppendOnly, "can not roll back below checkpoint %d to height %d", latest, height)
	}

	mutations, err := s.store.Batched()
	if err != nil {
		return err
	}

	for _, denomination := range zerocoin.Denominations {
		if err := s.rollbackDenominationWithoutLocking(denomination, height, latest, mutations); err != nil {
			mutations.Cancel()

			return err
		}
	}

	return mutations.Commit()
}

func (s *Store) rollbackDenominationWithoutLocking(denomination zerocoin.Denomination, height model.Height, latestCheckpoint model.Height, mutations kvstore.BatchedMutations) error {
	state, err := s.runningStateWithoutLocking(denomination)
	if err != nil {
		return err
	}
	if state.LastMemberHeight <= height {
		return nil
	}

	rebuilt := &runningState{Value: s.accumulatorParams.Base}
	if latestCheckpoint != 0 {
		checkpoint, err := s.checkpointAtWithoutLocking(denomination, latestCheckpoint)
		if err != nil {
			return err
		}

		rebuilt.Value = checkpoint.Value
		rebuilt.MemberCount = checkpoint.MemberCount
	}

	accumulator := zerocoin.AccumulatorFromValue(s.accumulatorParams, rebuilt.Value)
	for index := rebuilt.MemberCount; index < state.MemberCount; index++ {
		value, err := s.store.Get(memberKey(denomination, index))
		if err != nil {
			return ierrors.Wrapf(err, "failed to load member %d of denomination %s", index, denomination)
		}

		m, err := memberFromValue(denomination, index, value)
		if err != nil {
			return err
		}

		if m.Height > height {
			if err := mutations.Delete(memberKey(denomination, index)); err != nil {
				return err
			}
			if err := mutations.Delete(memberLookupKey(m.Commitment)); err != nil {
				return err
			}

			continue
		}

		if err := accumulator.Accumulate(m.Commitment); err != nil {
			return err
		}
		rebuilt.MemberCount++
		rebuilt.LastMemberHeight = m.Height
	}
	rebuilt.Value = accumulator.Value()

	return mutations.Set(runningStateKey(denomination), rebuilt.bytes())
}

// Witness computes the membership witness of a commitment against the checkpoint of its
// denomination at the given height.
func (s *Store) Witness(commitment *big.Int, denomination zerocoin.Denomination, checkpointHeight model.Height) (*zerocoin.Witness, *Checkpoint, error) {
	s.storeLock.RLock()
	defer s.storeLock.RUnlock()

	m, err := s.memberWithoutLocking(commitment)
	if err != nil {
		return nil, nil, err
	}
	if m.Denomination != denomination {
		return nil, nil, ierrors.Wrapf(ErrDenominationMismatch, "commitment has denomination %s, not %s", m.Denomination, denomination)
	}

	checkpoint, err := s.checkpointAtWithoutLocking(denomination, checkpointHeight)
	if err != nil {
		return nil, nil, err
	}
	if m.Index >= checkpoint.MemberCount {
		return nil, nil, ierrors.Wrapf(ErrCheckpointUnknown, "checkpoint at height %d predates the mint at height %d", checkpointHeight, m.Height)
	}

	witness := zerocoin.NewWitness(s.accumulatorParams, commitment)
	for index := uint64(0); index < checkpoint.MemberCount; index++ {
		value, err := s.store.Get(memberKey(denomination, index))
		if err != nil {
			return nil, nil, ierrors.Wrapf(err, "failed to load member %d of denomination %s", index, denomination)
		}

		memberCommitment, err := memberCommitmentFromValue(value)
		if err != nil {
			return nil, nil, err
		}

		witness.AddElement(memberCommitment)
	}

	return witness, checkpoint, nil
}

func (s *Store) runningStateWithoutLocking(denomination zerocoin.Denomination) (*runningState, error) {
	value, err := s.store.Get(runningStateKey(denomination))
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return &runningState{Value: s.accumulatorParams.Base}, nil
		}

		return nil, ierrors.Wrapf(err, "failed to load accumulator of denomination %s", denomination)
	}

	return runningStateFromBytes(value)
}

// Wipe removes all members and checkpoints.
func (s *Store) Wipe() (err error) {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	defer func() {
		if errFlush := s.store.Flush(); err == nil && errFlush != nil {
			err = errFlush
		}
	}()

	return s.store.Clear()
}
