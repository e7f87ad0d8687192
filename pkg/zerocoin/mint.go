package zerocoin

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/marshalutil"
	"github.com/iotaledger/zerostake/pkg/model"
)

// Mint is a locally owned shielded coin.
type Mint struct {
	Commitment   *big.Int
	Denomination Denomination
	SerialHash   model.Identifier
	Version      uint8
	// Height is the height of the block containing the mint, 0 while unconfirmed.
	Height model.Height
	Spent  bool
	// TxID is the transaction that created the mint.
	TxID model.Identifier

	// Serial and Randomness are nil for mints that were recorded without their secret.
	Serial     *big.Int
	Randomness *big.Int
}

// NewMint creates an unconfirmed mint for a freshly generated coin.
func NewMint(coin *PrivateCoin, txID model.Identifier) *Mint {
	return &Mint{
		Commitment:   new(big.Int).Set(coin.PublicCoin.Value),
		Denomination: coin.PublicCoin.Denomination,
		SerialHash:   coin.SerialHash(),
		Version:      coin.Version,
		TxID:         txID,
		Serial:       new(big.Int).Set(coin.Serial),
		Randomness:   new(big.Int).Set(coin.Randomness),
	}
}

// ID returns the identifier of the mint's commitment.
func (m *Mint) ID() model.Identifier {
	return CommitmentID(m.Commitment)
}

// PublicCoin returns the public coin of the mint.
func (m *Mint) PublicCoin() *PublicCoin {
	return &PublicCoin{
		Denomination: m.Denomination,
		Value:        new(big.Int).Set(m.Commitment),
	}
}

// PrivateCoin returns the secret coin material, or false if the mint was recorded without it.
func (m *Mint) PrivateCoin() (*PrivateCoin, bool) {
	if m.Serial == nil || m.Randomness == nil {
		return nil, false
	}

	return &PrivateCoin{
		PublicCoin: m.PublicCoin(),
		Serial:     new(big.Int).Set(m.Serial),
		Randomness: new(big.Int).Set(m.Randomness),
		Version:    m.Version,
	}, true
}

func (m *Mint) IsConfirmed() bool {
	return m.Height != 0
}

// Depth returns how many blocks the tip is above the mint, 0 if unconfirmed.
func (m *Mint) Depth(tip model.Height) model.Height {
	if !m.IsConfirmed() {
		return 0
	}

	return m.Height.Depth(tip)
}

// Clone returns a deep copy of the mint.
func (m *Mint) Clone() *Mint {
	clone := *m
	clone.Commitment = new(big.Int).Set(m.Commitment)
	if m.Serial != nil {
		clone.Serial = new(big.Int).Set(m.Serial)
	}
	if m.Randomness != nil {
		clone.Randomness = new(big.Int).Set(m.Randomness)
	}

	return &clone
}

func (m *Mint) Bytes() []byte {
	ms := marshalutil.New(128)
	WriteBigInt(ms, m.Commitment)
	ms.WriteByte(byte(m.Denomination))
	ms.WriteBytes(m.SerialHash[:])
	ms.WriteByte(m.Version)
	ms.WriteUint32(uint32(m.Height))
	ms.WriteBool(m.Spent)
	ms.WriteBytes(m.TxID[:])

	hasSecret := m.Serial != nil && m.Randomness != nil
	ms.WriteBool(hasSecret)
	if hasSecret {
		WriteBigInt(ms, m.Serial)
		WriteBigInt(ms, m.Randomness)
	}

	return ms.Bytes()
}

// MintFromBytes parses a mint serialized with Bytes.
func MintFromBytes(bytes []byte) (mint *Mint, err error) {
	ms := marshalutil.New(bytes)
	mint = new(Mint)

	if mint.Commitment, err = ReadBigInt(ms); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse commitment")
	}
	if mint.Denomination, err = ReadDenomination(ms); err != nil {
		return nil, err
	}
	if mint.SerialHash, err = ReadIdentifier(ms); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse serial hash")
	}
	if mint.Version, err = ms.ReadByte(); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse version")
	}

	height, err := ms.ReadUint32()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse height")
	}
	mint.Height = model.Height(height)

	if mint.Spent, err = ms.ReadBool(); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse spent flag")
	}
	if mint.TxID, err = ReadIdentifier(ms); err != nil {
		return nil, ierrors.Wrap(err, "failed to parse transaction id")
	}

	hasSecret, err := ms.ReadBool()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to parse secret flag")
	}
	if hasSecret {
		if mint.Serial, err = ReadBigInt(ms); err != nil {
			return nil, ierrors.Wrap(err, "failed to parse serial")
		}
		if mint.Randomness, err = ReadBigInt(ms); err != nil {
			return nil, ierrors.Wrap(err, "failed to parse randomness")
		}
	}

	return mint, nil
}
