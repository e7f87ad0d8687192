package accumulator

import (
	"fmt"
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

// Checkpoint is the accumulated value of all members of a denomination up to a block height.
type Checkpoint struct {
	Denomination zerocoin.Denomination
	Height       model.Height
	Value        *big.Int
	// MemberCount is the number of commitments contained in the checkpoint.
	MemberCount uint64
}

func checkpointKey(denomination zerocoin.Denomination, height model.Height) []byte {
	ms := marshalutil.New(6)
	ms.WriteByte(StoreKeyPrefixCheckpoint)
	ms.WriteByte(byte(denomination))
	ms.WriteBytes(height.Bytes())

	return ms.Bytes()
}

func (c *Checkpoint) KVStorableKey() []byte {
	return checkpointKey(c.Denomination, c.Height)
}

func (c *Checkpoint) KVStorableValue() []byte {
	ms := marshalutil.New(280)
	ms.WriteByte(byte(c.Denomination))
	ms.WriteUint32(uint32(c.Height))
	zerocoin.WriteBigInt(ms, c.Value)
	ms.WriteUint64(c.MemberCount)

	return ms.Bytes()
}

func (c *Checkpoint) kvStorableLoad(_ []byte, value []byte) (err error) {
	ms := marshalutil.New(value)

	if c.Denomination, err = zerocoin.ReadDenomination(ms); err != nil {
		return err
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return ierrors.Wrap(err, "failed to parse checkpoint height")
	}
	c.Height = model.Height(height)

	if c.Value, err = zerocoin.ReadBigInt(ms); err != nil {
		return ierrors.Wrap(err, "failed to parse checkpoint value")
	}

	if c.MemberCount, err = ms.ReadUint64(); err != nil {
		return ierrors.Wrap(err, "failed to parse member count")
	}

	return nil
}

func (c *Checkpoint) String() string {
	return fmt.Sprintf("Checkpoint(denomination=%s, height=%d, members=%d)", c.Denomination, c.Height, c.MemberCount)
}

type member struct {
	Denomination zerocoin.Denomination
	Index        uint64
	Commitment   *big.Int
	Height       model.Height
}

func memberKey(denomination zerocoin.Denomination, index uint64) []byte {
	ms := marshalutil.New(10)
	ms.WriteByte(StoreKeyPrefixMember)
	ms.WriteByte(byte(denomination))
	ms.WriteUint64(index)

	return ms.Bytes()
}

func memberLookupKey(commitment *big.Int) []byte {
	id := zerocoin.CommitmentID(commitment)

	return append([]byte{StoreKeyPrefixMemberLookup}, id[:]...)
}

func (m *member) value() []byte {
	ms := marshalutil.New(40)
	zerocoin.WriteBigInt(ms, m.Commitment)
	ms.WriteUint32(uint32(m.Height))

	return ms.Bytes()
}

func (m *member) lookupValue() []byte {
	ms := marshalutil.New(13)
	ms.WriteByte(byte(m.Denomination))
	ms.WriteUint64(m.Index)
	ms.WriteUint32(uint32(m.Height))

	return ms.Bytes()
}

func memberFromLookupValue(commitment *big.Int, value []byte) (*member, error) {
	ms := marshalutil.New(value)

	denomination, err := zerocoin.ReadDenomination(ms)
	if err != nil {
		return nil, err
	}

	index, err := ms.ReadUint64()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse member index")
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse member height")
	}

	return &member{
		Denomination: denomination,
		Index:        index,
		Commitment:   commitment,
		Height:       model.Height(height),
	}, nil
}

func memberCommitmentFromValue(value []byte) (*big.Int, error) {
	return zerocoin.ReadBigInt(marshalutil.New(value))
}

func memberFromValue(denomination zerocoin.Denomination, index uint64, value []byte) (*member, error) {
	ms := marshalutil.New(value)

	commitment, err := zerocoin.ReadBigInt(ms)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse member commitment")
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse member height")
	}

	return &member{
		Denomination: denomination,
		Index:        index,
		Commitment:   commitment,
		Height:       model.Height(height),
	}, nil
}

// runningState is the accumulator of a denomination including all members added so far.
type runningState struct {
	Value            *big.Int
	MemberCount      uint64
	LastMemberHeight model.Height
}

func runningStateKey(denomination zerocoin.Denomination) []byte {
	return []byte{StoreKeyPrefixRunningState, byte(denomination)}
}

func (r *runningState) bytes() []byte {
	ms := marshalutil.New(280)
	zerocoin.WriteBigInt(ms, r.Value)
	ms.WriteUint64(r.MemberCount)
	ms.WriteUint32(uint32(r.LastMemberHeight))

	return ms.Bytes()
}

func runningStateFromBytes(value []byte) (state *runningState, err error) {
	ms := marshalutil.New(value)
	state = new(runningState)

	if state.Value, err = zerocoin.ReadBigInt(ms); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse accumulator value")
	}
	if state.MemberCount, err = ms.ReadUint64(); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse member count")
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse last member height")
	}
	state.LastMemberHeight = model.Height(height)

	return state, nil
}
