package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// AddressLen is the byte length of a custody or token address.
const AddressLen = 20

// Address is a 0x-prefixed, hex-encoded 20-byte identity. The zero value and
// the all-zero address are both treated as the null address.
type Address string

var zeroAddress = Address("0x" + strings.Repeat("00", AddressLen))

func ParseAddress(s string) (Address, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(trimmed) != AddressLen*2 {
		return "", fmt.Errorf("invalid address length: got %d chars, expected %d", len(trimmed), AddressLen*2)
	}
	if _, err := hex.DecodeString(trimmed); err != nil {
		return "", fmt.Errorf("invalid address encoding: %s", err)
	}
	return Address("0x" + trimmed), nil
}

func (a Address) IsZero() bool {
	return a == "" || a == zeroAddress
}

func (a Address) String() string {
	return string(a)
}

// AssetId is the stable identifier of a registered asset, derived from its
// name. The derivation is case sensitive and one-way.
type AssetId [32]byte

func NewAssetId(name string) AssetId {
	return sha256.Sum256([]byte(name))
}

func ParseAssetId(s string) (AssetId, error) {
	var id AssetId
	buf, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid asset id encoding: %s", err)
	}
	if len(buf) != len(id) {
		return id, fmt.Errorf("invalid asset id length: got %d bytes, expected %d", len(buf), len(id))
	}
	copy(id[:], buf)
	return id, nil
}

func (id AssetId) String() string {
	return hex.EncodeToString(id[:])
}

// AssetRecord is the registration record of a managed asset. A record is
// either wholly present or wholly absent, there is no partial state.
type AssetRecord struct {
	Id            AssetId
	Name          string
	TokenAddress  Address
	CustodyWallet Address
	CreatedAt     int64
}

func NewAssetRecord(name string, tokenAddress, custodyWallet Address) AssetRecord {
	return AssetRecord{
		Id:            NewAssetId(name),
		Name:          name,
		TokenAddress:  tokenAddress,
		CustodyWallet: custodyWallet,
		CreatedAt:     time.Now().Unix(),
	}
}
