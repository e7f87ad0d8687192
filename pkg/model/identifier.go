package model

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/ierrors"
)

// IdentifierLength is the length of an Identifier in bytes.
const IdentifierLength = blake2b.Size256

// ErrInvalidIdentifierLength is returned if an identifier can not be parsed from the given bytes.
var ErrInvalidIdentifierLength = ierrors.New("invalid identifier length")

// Identifier is a 32 byte hash used to identify blocks, transactions, commitments and serials.
type Identifier [IdentifierLength]byte

// EmptyIdentifier is the zero value of an Identifier.
var EmptyIdentifier = Identifier{}

// IdentifierFromData returns the blake2b-256 hash of the given data as an Identifier.
func IdentifierFromData(data []byte) Identifier {
	return blake2b.Sum256(data)
}

// IdentifierFromBytes parses an Identifier from the first IdentifierLength bytes.
func IdentifierFromBytes(bytes []byte) (Identifier, int, error) {
	var id Identifier
	if len(bytes) < IdentifierLength {
		return id, 0, ierrors.Wrapf(ErrInvalidIdentifierLength, "expected %d bytes, got %d", IdentifierLength, len(bytes))
	}
	copy(id[:], bytes)

	return id, IdentifierLength, nil
}

// IdentifierFromHexString parses a hex encoded Identifier.
func IdentifierFromHexString(hexString string) (Identifier, error) {
	bytes, err := hex.DecodeString(hexString)
	if err != nil {
		return EmptyIdentifier, ierrors.Wrap(err, "failed to decode identifier")
	}

	id, consumed, err := IdentifierFromBytes(bytes)
	if err != nil {
		return EmptyIdentifier, err
	}
	if consumed != len(bytes) {
		return EmptyIdentifier, ierrors.Wrapf(ErrInvalidIdentifierLength, "expected %d bytes, got %d", IdentifierLength, len(bytes))
	}

	return id, nil
}

func (id Identifier) Bytes() []byte {
	return id[:]
}

func (id Identifier) Empty() bool {
	return id == EmptyIdentifier
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Alias returns a shortened representation of the identifier for log output.
func (id Identifier) Alias() string {
	return hex.EncodeToString(id[:4])
}
