package zerocoin

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
)

const (
	serialBits     = 256
	commitmentBits = 256
)

// ErrCommitmentBinding is returned if a revealed serial was not derived together with the commitment.
var ErrCommitmentBinding = ierrors.New("serial is not bound to the commitment")

// PublicCoin is the public part of a shielded coin that is placed into the accumulator.
type PublicCoin struct {
	Denomination Denomination
	Value        *big.Int
}

// ID returns the hash of the commitment, used as storage key.
func (p *PublicCoin) ID() model.Identifier {
	return CommitmentID(p.Value)
}

// CommitmentID returns the identifier of a commitment value.
func CommitmentID(commitment *big.Int) model.Identifier {
	return model.IdentifierFromData(commitment.Bytes())
}

// PrivateCoin is the secret coin material needed to spend a public coin.
type PrivateCoin struct {
	PublicCoin *PublicCoin
	Serial     *big.Int
	Randomness *big.Int
	Version    uint8
}

// GeneratePrivateCoin creates a fresh coin of the given denomination.
func GeneratePrivateCoin(denomination Denomination, version uint8) (*PrivateCoin, error) {
	if !denomination.IsValid() {
		return nil, ErrInvalidDenomination
	}

	serial, err := randomInt(serialBits)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to generate serial")
	}

	randomness, err := randomInt(serialBits)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to generate randomness")
	}

	return &PrivateCoin{
		PublicCoin: &PublicCoin{
			Denomination: denomination,
			Value:        DeriveCommitment(serial, randomness),
		},
		Serial:     serial,
		Randomness: randomness,
		Version:    version,
	}, nil
}

// SerialHash returns the hash of the serial that is revealed when the coin is spent.
func (p *PrivateCoin) SerialHash() model.Identifier {
	return SerialHash(p.Serial)
}

// IsValid checks that the public coin was derived from the secret material.
func (p *PrivateCoin) IsValid() bool {
	return p.PublicCoin != nil && p.PublicCoin.Denomination.IsValid() &&
		VerifyCommitment(p.Serial, p.Randomness, p.PublicCoin.Value) == nil
}

// VerifyCommitment checks that commitment was derived from serial and randomness.
func VerifyCommitment(serial *big.Int, randomness *big.Int, commitment *big.Int) error {
	if !isCoinSecret(serial) || !isCoinSecret(randomness) {
		return ierrors.Wrap(ErrCommitmentBinding, "coin secret out of range")
	}

	if commitment == nil || DeriveCommitment(serial, randomness).Cmp(commitment) != 0 {
		return ErrCommitmentBinding
	}

	return nil
}

func isCoinSecret(value *big.Int) bool {
	return value != nil && value.Sign() >= 0 && value.BitLen() <= serialBits
}

// SerialHash hashes a coin serial.
func SerialHash(serial *big.Int) model.Identifier {
	return model.IdentifierFromData(serial.Bytes())
}

// DeriveCommitment maps serial and randomness to the next prime above their hash with the top bit set.
func DeriveCommitment(serial *big.Int, randomness *big.Int) *big.Int {
	hash := blake2b.Sum256(append(padded(serial), padded(randomness)...))

	commitment := new(big.Int).SetBytes(hash[:])
	commitment.SetBit(commitment, commitmentBits-1, 1)
	commitment.SetBit(commitment, 0, 1)

	two := big.NewInt(2)
	for !commitment.ProbablyPrime(20) {
		commitment.Add(commitment, two)
	}

	return commitment
}

func padded(value *big.Int) []byte {
	return value.FillBytes(make([]byte, serialBits/8))
}

func randomInt(bits int) (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
}
