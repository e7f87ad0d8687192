package mintledger

const (
	StoreKeyPrefixTipHeight byte = 0

	// StoreKeyPrefixMint defines the prefix for Mint storage.
	StoreKeyPrefixMint byte = 1

	// StoreKeyPrefixMintSpent defines the prefix for Track spent/unspent Mints.
	StoreKeyPrefixMintSpent   byte = 2
	StoreKeyPrefixMintUnspent byte = 3

	// StoreKeyPrefixSerialLookup defines the prefix to find a Mint by its serial hash.
	StoreKeyPrefixSerialLookup byte = 4
)

/*
   Mint Ledger Database

   Tip:
   ====
   Key:
       StoreKeyPrefixTipHeight
               1 byte

   Value:
       model.Height
          4 bytes

   Mint:
   =====
   Key:
       StoreKeyPrefixMint + CommitmentID
             1 byte       +   32 bytes

   Value:
       zerocoin.Mint.Bytes()
       Commitment + Denomination + SerialHash + Version + Height + Spent + TxID + [Serial + Randomness]

   Spent Mint:
   ===========
   Key:
       StoreKeyPrefixMintSpent + CommitmentID
               1 byte          +   32 bytes

   Value:
       Empty

   Unspent Mint:
   =============
   Key:
       StoreKeyPrefixMintUnspent + CommitmentID
                1 byte           +   32 bytes

   Value:
       Empty

   Serial lookup:
   ==============
   Key:
       StoreKeyPrefixSerialLookup + SerialHash
                1 byte            +  32 bytes

   Value:
       CommitmentID
         32 bytes

*/
