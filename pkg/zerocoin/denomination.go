package zerocoin

import (
	"strconv"

	"github.com/iotaledger/hive.go/ierrors"
)

// Coin is the number of base units in one whole coin.
const Coin int64 = 100_000_000

var (
	// ErrInvalidDenomination is returned if a value does not map to a known denomination.
	ErrInvalidDenomination = ierrors.New("invalid denomination")
	// ErrInvalidAmount is returned if an amount is not positive.
	ErrInvalidAmount = ierrors.New("invalid amount")
	// ErrAmountBelowSmallestDenomination is returned if an amount can not be expressed in denominations.
	ErrAmountBelowSmallestDenomination = ierrors.New("value is below the smallest available denomination (= 1)")
)

// Denomination is the fixed face value of a shielded coin.
type Denomination byte

const (
	DenominationInvalid Denomination = iota
	DenominationOne
	DenominationFive
	DenominationTen
	DenominationFifty
	DenominationOneHundred
	DenominationFiveHundred
	DenominationOneThousand
	DenominationFiveThousand
)

// Denominations contains all valid denominations in ascending order of their value.
var Denominations = []Denomination{
	DenominationOne,
	DenominationFive,
	DenominationTen,
	DenominationFifty,
	DenominationOneHundred,
	DenominationFiveHundred,
	DenominationOneThousand,
	DenominationFiveThousand,
}

var denominationValues = map[Denomination]int64{
	DenominationOne:          1,
	DenominationFive:         5,
	DenominationTen:          10,
	DenominationFifty:        50,
	DenominationOneHundred:   100,
	DenominationFiveHundred:  500,
	DenominationOneThousand:  1000,
	DenominationFiveThousand: 5000,
}

var denominationsByValue = func() map[int64]Denomination {
	m := make(map[int64]Denomination, len(denominationValues))
	for denomination, value := range denominationValues {
		m[value] = denomination
	}

	return m
}()

// ValueOf returns the whole-coin value of the given denomination, or 0 if it is invalid.
func ValueOf(d Denomination) int64 {
	return denominationValues[d]
}

// DenominationOf returns the denomination with the given whole-coin value or DenominationInvalid.
func DenominationOf(value int64) Denomination {
	if denomination, exists := denominationsByValue[value]; exists {
		return denomination
	}

	return DenominationInvalid
}

// AmountToDenomination converts an amount in base units to the denomination of the same value.
func AmountToDenomination(amount int64) Denomination {
	if amount <= 0 || amount%Coin != 0 {
		return DenominationInvalid
	}

	return DenominationOf(amount / Coin)
}

// DenominationsForAmount splits a whole-coin value into denominations, largest first.
func DenominationsForAmount(coins int64) ([]Denomination, error) {
	if coins < 1 {
		return nil, ErrAmountBelowSmallestDenomination
	}

	result := make([]Denomination, 0)
	for i := len(Denominations) - 1; i >= 0; i-- {
		value := Denominations[i].Value()
		for coins >= value {
			result = append(result, Denominations[i])
			coins -= value
		}
	}

	return result, nil
}

// Value returns the whole-coin value of the denomination.
func (d Denomination) Value() int64 {
	return ValueOf(d)
}

// Amount returns the value of the denomination in base units.
func (d Denomination) Amount() int64 {
	return ValueOf(d) * Coin
}

func (d Denomination) IsValid() bool {
	_, exists := denominationValues[d]

	return exists
}

func (d Denomination) String() string {
	if !d.IsValid() {
		return "invalid"
	}

	return strconv.FormatInt(d.Value(), 10)
}
