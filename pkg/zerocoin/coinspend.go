package zerocoin

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/iotaledger/zerostake/pkg/model"
)

// ErrMalformedWitness is returned if a witness blob can not be decoded.
var ErrMalformedWitness = ierrors.New("malformed witness")

// CoinSpend reveals the serial of a coin together with the proof that the coin is a member of an
// accumulator checkpoint. The randomness opens the commitment and binds the serial to it.
type CoinSpend struct {
	Denomination     Denomination
	Serial           *big.Int
	Randomness       *big.Int
	Commitment       *big.Int
	CheckpointHeight model.Height
	Witness          []byte
	Version          uint8
	SecurityLevel    int
	// MintCount is the number of accumulator members the spend is hidden among.
	MintCount uint64
	// TxOutHash binds the spend to the outputs of the spending transaction.
	TxOutHash model.Identifier
}

func (c *CoinSpend) SerialHash() model.Identifier {
	return SerialHash(c.Serial)
}

// ID returns the hash of the serialized spend.
func (c *CoinSpend) ID() model.Identifier {
	return model.IdentifierFromData(c.Bytes())
}

func (c *CoinSpend) Bytes() []byte {
	ms := marshalutil.New(256)
	ms.WriteByte(byte(c.Denomination))
	WriteBigInt(ms, c.Serial)
	WriteBigInt(ms, c.Randomness)
	WriteBigInt(ms, c.Commitment)
	ms.WriteUint32(uint32(c.CheckpointHeight))
	ms.WriteUint32(uint32(len(c.Witness)))
	ms.WriteBytes(c.Witness)
	ms.WriteByte(c.Version)
	ms.WriteUint32(uint32(c.SecurityLevel))
	ms.WriteUint64(c.MintCount)
	ms.WriteBytes(c.TxOutHash[:])

	return ms.Bytes()
}

// EncodeWitness serializes a witness together with the checkpoint it was accumulated to.
func EncodeWitness(denomination Denomination, checkpointHeight model.Height, witness *Witness) []byte {
	ms := marshalutil.New(300)
	ms.WriteByte(byte(denomination))
	ms.WriteUint32(uint32(checkpointHeight))
	WriteBigInt(ms, witness.value)

	return ms.Bytes()
}

// DecodeWitness parses a witness blob for the given commitment.
func DecodeWitness(params *AccumulatorParams, commitment *big.Int, blob []byte) (Denomination, model.Height, *Witness, error) {
	ms := marshalutil.New(blob)

	denominationTag, err := ms.ReadByte()
	if err != nil {
		return DenominationInvalid, 0, nil, ierrors.Join(ErrMalformedWitness, err)
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return DenominationInvalid, 0, nil, ierrors.Join(ErrMalformedWitness, err)
	}

	value, err := ReadBigInt(ms)
	if err != nil {
		return DenominationInvalid, 0, nil, ierrors.Join(ErrMalformedWitness, err)
	}

	return Denomination(denominationTag), model.Height(height), WitnessFromValue(params, commitment, value), nil
}
