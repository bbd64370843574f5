// Package domain holds the shared kernel: typed references and values that
// cross bounded contexts. Parsing happens once at trust boundaries.
package domain

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "tokenguard/pkg/domain-errors"
)

// AddressLength is the byte length of an account or contract reference.
const AddressLength = 20

// Address references a wallet, identity contract, issuer, module or asset.
// The zero value is the "absent" reference: a mint has no sender and a burn
// has no recipient.
type Address [AddressLength]byte

// ZeroAddress is the absent reference.
var ZeroAddress Address

// ParseAddress parses a 0x-prefixed 40 nibble hex string. Case is ignored.
func ParseAddress(s string) (Address, error) {
	var a Address
	if len(s) != 2+2*AddressLength || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return a, dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex characters")
	}
	if _, err := hex.Decode(a[:], []byte(s[2:])); err != nil {
		return Address{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "address is not valid hex")
	}
	return a, nil
}

// MustParseAddress panics on malformed input. Intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress keeps the last 20 bytes of b, left-padding shorter input.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ClaimTopic is a numeric claim category (KYC, AML, ...). Topic 0 is a
// placeholder that every identity satisfies.
type ClaimTopic uint64

// ParseClaimTopic parses a base-10 topic.
func ParseClaimTopic(s string) (ClaimTopic, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "claim topic must be an unsigned integer")
	}
	return ClaimTopic(v), nil
}

func (t ClaimTopic) IsWildcard() bool {
	return t == 0
}

// ClaimID identifies a claim inside an identity contract.
type ClaimID [32]byte

func (c ClaimID) String() string {
	return "0x" + hex.EncodeToString(c[:])
}

// ComputeClaimID derives the identifier under which issuer stores its claim
// for topic: keccak256(pad32(issuer) || uint256(topic)).
func ComputeClaimID(issuer Address, topic ClaimTopic) ClaimID {
	var buf [64]byte
	copy(buf[32-AddressLength:32], issuer[:])
	binary.BigEndian.PutUint64(buf[56:], uint64(topic))
	var id ClaimID
	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	h.Sum(id[:0])
	return id
}

// CountryCode is an ISO-3166 numeric country code.
type CountryCode uint16
