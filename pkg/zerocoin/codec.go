package zerocoin

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/iotaledger/zerostake/pkg/model"
)

// maxBigIntLength bounds length prefixes of serialized integers (a 2048 bit accumulator value is 256 bytes).
const maxBigIntLength = 512

// WriteBigInt writes a length prefixed big endian integer.
func WriteBigInt(ms *marshalutil.MarshalUtil, value *big.Int) {
	if value == nil {
		ms.WriteUint32(0)

		return
	}

	bytes := value.Bytes()
	ms.WriteUint32(uint32(len(bytes)))
	ms.WriteBytes(bytes)
}

func ReadBigInt(ms *marshalutil.MarshalUtil) (*big.Int, error) {
	length, err := ms.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length > maxBigIntLength {
		return nil, ierrors.Errorf("integer length %d exceeds maximum of %d", length, maxBigIntLength)
	}

	bytes, err := ms.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(bytes), nil
}

func ReadIdentifier(ms *marshalutil.MarshalUtil) (model.Identifier, error) {
	bytes, err := ms.ReadBytes(model.IdentifierLength)
	if err != nil {
		return model.EmptyIdentifier, err
	}

	id, _, err := model.IdentifierFromBytes(bytes)

	return id, err
}

func ReadDenomination(ms *marshalutil.MarshalUtil) (Denomination, error) {
	b, err := ms.ReadByte()
	if err != nil {
		return DenominationInvalid, err
	}

	denomination := Denomination(b)
	if !denomination.IsValid() {
		return DenominationInvalid, ierrors.Wrapf(ErrInvalidDenomination, "denomination tag %d", b)
	}

	return denomination, nil
}
