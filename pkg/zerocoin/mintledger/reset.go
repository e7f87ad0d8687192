package mintledger

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
	"github.com/iotaledger/zerostake/pkg/zerocoin/accumulator"
)

// MemberIndex resolves the height at which a commitment was accumulated on chain.
type MemberIndex interface {
	MemberHeight(commitment *big.Int) (model.Height, error)
}

// SerialIndex tells whether a serial was revealed on chain.
type SerialIndex interface {
	IsSpent(serialHash model.Identifier) (bool, error)
}

// ResetMints re-derives the height of every mint from the chain. Mints that are not part of the chain
// fall back to unconfirmed. It returns the number of updated mints.
func (m *Manager) ResetMints(members MemberIndex) (int, error) {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	mints, err := m.mintsWithoutLocking(StoreKeyPrefixMint)
	if err != nil {
		return 0, err
	}

	mutations, err := m.store.Batched()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, mint := range mints {
		height, err := members.MemberHeight(mint.Commitment)
		if err != nil {
			if !ierrors.Is(err, accumulator.ErrUnknownMember) {
				mutations.Cancel()

				return 0, ierrors.Wrapf(err, "failed to look up commitment %s", mint.ID().Alias())
			}

			height = 0
		}

		if height == mint.Height {
			continue
		}

		mint.Height = height
		if err := storeMint(mint, mutations); err != nil {
			mutations.Cancel()

			return 0, err
		}
		updated++
	}

	return updated, mutations.Commit()
}

// ResetSpent sets the spent flag of every mint to whether its serial was revealed on chain.
// It returns the number of updated mints.
func (m *Manager) ResetSpent(serials SerialIndex) (int, error) {
	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	mints, err := m.mintsWithoutLocking(StoreKeyPrefixMint)
	if err != nil {
		return 0, err
	}

	changed := make(map[bool][]*zerocoin.Mint)
	for _, mint := range mints {
		spent, err := serials.IsSpent(mint.SerialHash)
		if err != nil {
			return 0, ierrors.Wrapf(err, "failed to look up serial %s", mint.SerialHash.Alias())
		}

		if spent != mint.Spent {
			changed[spent] = append(changed[spent], mint)
		}
	}

	if err := m.setSpentWithoutLocking(changed[true], true); err != nil {
		return 0, err
	}

	if err := m.setSpentWithoutLocking(changed[false], false); err != nil {
		return 0, err
	}

	return len(changed[true]) + len(changed[false]), nil
}
