package model

import (
	"encoding/binary"
	"fmt"
)

// Address is an opaque, already validated destination.
type Address string

// OutPoint references a transparent transaction output.
type OutPoint struct {
	TxID  Identifier
	Index uint32
}

func (o OutPoint) Bytes() []byte {
	bytes := make([]byte, IdentifierLength+4)
	copy(bytes, o.TxID[:])
	binary.LittleEndian.PutUint32(bytes[IdentifierLength:], o.Index)

	return bytes
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.Alias(), o.Index)
}

// TxOut is a transaction output. Outputs that mint a shielded coin carry the commitment of the coin
// instead of an address.
type TxOut struct {
	Value      int64
	Address    Address
	Commitment []byte
}

// IsMint returns whether the output mints a shielded coin.
func (o *TxOut) IsMint() bool {
	return len(o.Commitment) != 0
}

func (o *TxOut) Bytes() []byte {
	bytes := binary.LittleEndian.AppendUint64(nil, uint64(o.Value))
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(len(o.Address)))
	bytes = append(bytes, o.Address...)
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(len(o.Commitment)))

	return append(bytes, o.Commitment...)
}

// OutputsHash commits to a list of outputs.
func OutputsHash(outputs []*TxOut) Identifier {
	var data []byte
	for _, output := range outputs {
		data = append(data, output.Bytes()...)
	}

	return IdentifierFromData(data)
}
