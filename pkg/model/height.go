package model

import (
	"encoding/binary"

	"github.com/iotaledger/hive.go/ierrors"
)

// HeightLength is the serialized length of a Height.
const HeightLength = 4

// Height is the index of a block in the chain.
type Height uint32

// HeightFromBytes parses a big endian encoded Height.
func HeightFromBytes(bytes []byte) (Height, int, error) {
	if len(bytes) < HeightLength {
		return 0, 0, ierrors.Errorf("not enough bytes to parse height: %d", len(bytes))
	}

	return Height(binary.BigEndian.Uint32(bytes)), HeightLength, nil
}

// Bytes returns the big endian representation, which keeps heights ordered in the key space.
func (h Height) Bytes() []byte {
	bytes := make([]byte, HeightLength)
	binary.BigEndian.PutUint32(bytes, uint32(h))

	return bytes
}

// Depth returns the number of blocks between h and the given tip, or 0 if h is not below the tip.
func (h Height) Depth(tip Height) Height {
	if tip <= h {
		return 0
	}

	return tip - h
}
