// Package commitment implements the blinded-bid commitment scheme of the
// auction contract.
//
// A bidder hides the true bid behind a keccak256 digest over the bid value,
// a fake flag and a hashed secret. The contract recomputes the same digest at
// reveal time, so the packing here has zero tolerance for deviation: a wrong
// byte order, width or padding silently produces a commitment the contract
// can never match.
package commitment

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// ErrInvalidBidValue is returned when a bid value cannot be encoded as a
// contract uint256 (nil, negative, or wider than 32 bytes).
var ErrInvalidBidValue = errors.New("commitment: bid value not representable as uint256")

// Commitment is the 32-byte blinded-bid digest the contract stores at commit
// time.
type Commitment [32]byte

// Bytes returns the commitment as a byte slice.
func (c Commitment) Bytes() []byte {
	return c[:]
}

// SecretDigest hashes the raw user-chosen secret once. The digest, not the
// raw secret, is what gets packed into the commitment and submitted with the
// reveal call.
func SecretDigest(secret []byte) [32]byte {
	return keccak256(secret)
}

// Commit computes the blinded-bid commitment for (value, fake, secret).
//
// Packing matches the contract's abi.encodePacked exactly: a 32-byte
// big-endian value, a single fake byte (0x01 or 0x00), and the 32-byte
// keccak256 digest of the secret, hashed together with keccak256.
func Commit(value *big.Int, fake bool, secret []byte) (Commitment, error) {
	if value == nil || value.Sign() < 0 {
		return Commitment{}, ErrInvalidBidValue
	}
	v, overflow := uint256.FromBig(value)
	if overflow {
		return Commitment{}, ErrInvalidBidValue
	}

	packed := make([]byte, 0, 65)
	vb := v.Bytes32()
	packed = append(packed, vb[:]...)
	if fake {
		packed = append(packed, 1)
	} else {
		packed = append(packed, 0)
	}
	digest := SecretDigest(secret)
	packed = append(packed, digest[:]...)

	return Commitment(keccak256(packed)), nil
}

func keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	h.Sum(out[:0])
	return out
}
