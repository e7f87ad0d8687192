package spork

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/iotaledger/hive.go/ierrors"
)

var (
	// ErrInvalidSignature is returned if a message is not signed by any accepted key.
	ErrInvalidSignature = ierrors.New("invalid spork signature")
	// ErrNoSigningKey is returned if sporks are updated on a node without signing key.
	ErrNoSigningKey = ierrors.New("no spork signing key configured")
)

// Signer signs spork messages with the spork authority key.
type Signer struct {
	key *secp256k1.PrivateKey
}

func NewSigner(key *secp256k1.PrivateKey) *Signer {
	return &Signer{key: key}
}

// SignerFromHex creates a signer from a hex encoded private key.
func SignerFromHex(privateKey string) (*Signer, error) {
	keyBytes, err := hex.DecodeString(privateKey)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to decode spork signing key")
	}
	if len(keyBytes) != secp256k1.PrivKeyBytesLen {
		return nil, ierrors.Errorf("spork signing key has invalid length %d", len(keyBytes))
	}

	return NewSigner(secp256k1.PrivKeyFromBytes(keyBytes)), nil
}

func (s *Signer) PublicKey() *secp256k1.PublicKey {
	return s.key.PubKey()
}

// Sign sets the signature of the message.
func (s *Signer) Sign(message *Message) {
	hash := message.SigningHash()
	message.Signature = ecdsa.SignCompact(s.key, hash[:], true)
}

// ParsePublicKeys decodes hex encoded public keys.
func ParsePublicKeys(publicKeys []string) ([]*secp256k1.PublicKey, error) {
	keys := make([]*secp256k1.PublicKey, 0, len(publicKeys))
	for _, publicKey := range publicKeys {
		keyBytes, err := hex.DecodeString(publicKey)
		if err != nil {
			return nil, ierrors.Wrapf(err, "failed to decode spork public key %s", publicKey)
		}

		key, err := secp256k1.ParsePubKey(keyBytes)
		if err != nil {
			return nil, ierrors.Wrapf(err, "failed to parse spork public key %s", publicKey)
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// VerifySignature checks that the message was signed by one of the accepted keys.
func VerifySignature(message *Message, acceptedKeys []*secp256k1.PublicKey) error {
	hash := message.SigningHash()

	recovered, _, err := ecdsa.RecoverCompact(message.Signature, hash[:])
	if err != nil {
		return ierrors.Join(ErrInvalidSignature, err)
	}

	for _, key := range acceptedKeys {
		if key.IsEqual(recovered) {
			return nil
		}
	}

	return ierrors.Wrapf(ErrInvalidSignature, "%s was signed by an unknown key", message)
}
