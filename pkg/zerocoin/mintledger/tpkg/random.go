package tpkg

import (
	"crypto/rand"
	"math/big"

	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/zerostake/pkg/model"
	"github.com/iotaledger/zerostake/pkg/zerocoin"
)

func RandIdentifier() model.Identifier {
	var id model.Identifier
	lo.PanicOnErr(rand.Read(id[:]))

	return id
}

func RandHeight(max model.Height) model.Height {
	return model.Height(lo.PanicOnErr(rand.Int(rand.Reader, big.NewInt(int64(max)))).Int64()) + 1
}

func RandDenomination() zerocoin.Denomination {
	return zerocoin.Denominations[lo.PanicOnErr(rand.Int(rand.Reader, big.NewInt(int64(len(zerocoin.Denominations))))).Int64()]
}

func RandPrivateCoin(denomination zerocoin.Denomination) *zerocoin.PrivateCoin {
	return lo.PanicOnErr(zerocoin.GeneratePrivateCoin(denomination, zerocoin.CurrentCoinVersion))
}

// RandMint returns an unspent mint of the given denomination confirmed at the given height.
func RandMint(denomination zerocoin.Denomination, height model.Height) *zerocoin.Mint {
	mint := zerocoin.NewMint(RandPrivateCoin(denomination), RandIdentifier())
	mint.Height = height

	return mint
}

// RandMintWithVersion returns a mint with an explicit coin version.
func RandMintWithVersion(denomination zerocoin.Denomination, height model.Height, version uint8) *zerocoin.Mint {
	coin := lo.PanicOnErr(zerocoin.GeneratePrivateCoin(denomination, version))
	mint := zerocoin.NewMint(coin, RandIdentifier())
	mint.Height = height

	return mint
}
