package spork

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
)

// maxSignatureLength bounds the length prefix of a serialized signature.
const maxSignatureLength = 128

// Message is a signed spork value.
type Message struct {
	ID    ID
	Value int64
	// TimeSigned orders messages of the same spork, only strictly newer ones are accepted.
	TimeSigned int64
	Signature  []byte
}

// SigningHash returns the hash covered by the signature.
func (m *Message) SigningHash() [32]byte {
	ms := marshalutil.New(20)
	ms.WriteInt32(int32(m.ID))
	ms.WriteInt64(m.Value)
	ms.WriteInt64(m.TimeSigned)

	return blake2b.Sum256(ms.Bytes())
}

// Hash identifies the message including its signature.
func (m *Message) Hash() [32]byte {
	return blake2b.Sum256(m.Bytes())
}

func (m *Message) Bytes() []byte {
	ms := marshalutil.New(24 + len(m.Signature))
	ms.WriteInt32(int32(m.ID))
	ms.WriteInt64(m.Value)
	ms.WriteInt64(m.TimeSigned)
	ms.WriteUint32(uint32(len(m.Signature)))
	ms.WriteBytes(m.Signature)

	return ms.Bytes()
}

// MessageFromBytes parses a message serialized with Bytes.
func MessageFromBytes(bytes []byte) (*Message, error) {
	ms := marshalutil.New(bytes)

	id, err := ms.ReadInt32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse spork id")
	}

	value, err := ms.ReadInt64()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse spork value")
	}

	timeSigned, err := ms.ReadInt64()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse signing time")
	}

	signatureLength, err := ms.ReadUint32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse signature length")
	}
	if signatureLength > maxSignatureLength {
		return nil, ierrors.Errorf("signature length %d exceeds maximum of %d", signatureLength, maxSignatureLength)
	}

	signature, err := ms.ReadBytes(int(signatureLength))
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse signature")
	}

	return &Message{
		ID:         ID(id),
		Value:      value,
		TimeSigned: timeSigned,
		Signature:  signature,
	}, nil
}

func (m *Message) String() string {
	return fmt.Sprintf("Spork(%s, value=%d, time=%d)", m.ID, m.Value, m.TimeSigned)
}
