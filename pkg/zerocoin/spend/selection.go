package spend

import (
	"sort"

	"github.com/iotaledger/zerostake/pkg/zerocoin/mintledger"
)

// SelectMints picks mints from the spendable list, which is expected in ledger order, to cover amount.
// By default the largest coins are used first which needs the fewest spends. With minimizeChange the
// amount is covered denomination by denomination and the remainder by the smallest coin covering it.
// It returns nil if the mints do not cover the amount.
func SelectMints(spendable mintledger.Mints, amount int64, minimizeChange bool) mintledger.Mints {
	if spendable.Value() < amount {
		return nil
	}

	// descending by value, ledger order within a denomination
	byValue := make(mintledger.Mints, len(spendable))
	copy(byValue, spendable)
	sort.SliceStable(byValue, func(i, j int) bool {
		return byValue[i].Denomination.Value() > byValue[j].Denomination.Value()
	})

	if !minimizeChange {
		return takeLargest(byValue, nil, amount)
	}

	var selected mintledger.Mints
	used := make([]bool, len(byValue))
	remaining := amount
	for i, mint := range byValue {
		if mint.Denomination.Amount() <= remaining {
			selected = append(selected, mint)
			used[i] = true
			remaining -= mint.Denomination.Amount()
		}
	}

	if remaining <= 0 {
		return selected
	}

	// smallest unused coin covering the remainder
	for i := len(byValue) - 1; i >= 0; i-- {
		if !used[i] && byValue[i].Denomination.Amount() >= remaining {
			return append(selected, byValue[i])
		}
	}

	unused := make(mintledger.Mints, 0, len(byValue))
	for i, mint := range byValue {
		if !used[i] {
			unused = append(unused, mint)
		}
	}

	return takeLargest(unused, selected, remaining)
}

func takeLargest(byValue mintledger.Mints, selected mintledger.Mints, amount int64) mintledger.Mints {
	for _, mint := range byValue {
		if amount <= 0 {
			break
		}

		selected = append(selected, mint)
		amount -= mint.Denomination.Amount()
	}

	return selected
}
