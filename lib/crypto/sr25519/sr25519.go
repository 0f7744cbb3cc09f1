// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package sr25519

import (
	"errors"
	"fmt"

	sr25519 "github.com/ChainSafe/go-schnorrkel"
)

const (
	// PublicKeyLength is the expected public key length for sr25519.
	PublicKeyLength = 32
	// SeedLength is the expected seed length for sr25519.
	SeedLength = 32
	// SignatureLength is the expected signature length for sr25519.
	SignatureLength = 64
)

// SigningContext is the transcript label substrate uses for sr25519 signatures.
var SigningContext = []byte("substrate")

var (
	// ErrSeedLength is returned when the seed is not 32 bytes long.
	ErrSeedLength = errors.New("seed is not 32 bytes long")
	// ErrPublicKeyLength is returned when a public key is not 32 bytes long.
	ErrPublicKeyLength = errors.New("public key is not 32 bytes long")
	// ErrSignatureLength is returned when a signature is not 64 bytes long.
	ErrSignatureLength = errors.New("signature is not 64 bytes long")
)

// Keypair is a sr25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PublicKey holds reference to a sr25519.PublicKey
type PublicKey struct {
	key *sr25519.PublicKey
}

// PrivateKey holds reference to a sr25519.SecretKey
type PrivateKey struct {
	key *sr25519.SecretKey
}

// NewKeypairFromSeed returns a new Keypair given a 32 byte seed,
// expanded the same way substrate expands mini secret keys.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("cannot generate key from seed: %w", ErrSeedLength)
	}

	var buf [SeedLength]byte
	copy(buf[:], seed)
	msc, err := sr25519.NewMiniSecretKeyFromRaw(buf)
	if err != nil {
		return nil, fmt.Errorf("creating mini secret key: %w", err)
	}

	priv := msc.ExpandEd25519()
	pub, err := priv.Public()
	if err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// GenerateKeypair returns a new sr25519 keypair
func GenerateKeypair() (*Keypair, error) {
	priv, pub, err := sr25519.GenerateKeypair()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// Sign uses the keypair to sign the message using the substrate signing context
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return kp.private.Sign(msg)
}

// Public returns the public key corresponding to this keypair
func (kp *Keypair) Public() *PublicKey {
	return kp.public
}

// Sign uses the private key to sign the message using the substrate signing context
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if k.key == nil {
		return nil, errors.New("key is nil")
	}
	t := sr25519.NewSigningContext(SigningContext, msg)
	sig, err := k.key.Sign(t)
	if err != nil {
		return nil, err
	}
	enc := sig.Encode()
	return enc[:], nil
}

// NewPublicKey creates a new public key from the given bytes
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPublicKeyLength, len(in))
	}

	var buf [PublicKeyLength]byte
	copy(buf[:], in)
	pub := new(sr25519.PublicKey)
	if err := pub.Decode(buf); err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	return &PublicKey{key: pub}, nil
}

// Verify verifies that the public key signed the given message
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	if k.key == nil {
		return false, errors.New("nil public key")
	}

	if len(sig) != SignatureLength {
		return false, fmt.Errorf("%w: got %d bytes", ErrSignatureLength, len(sig))
	}

	var b [SignatureLength]byte
	copy(b[:], sig)

	s := new(sr25519.Signature)
	if err := s.Decode(b); err != nil {
		return false, err
	}

	t := sr25519.NewSigningContext(SigningContext, msg)
	return k.key.Verify(s, t)
}

// Encode returns the SCALE encoding of the public key
func (k *PublicKey) Encode() []byte {
	enc := k.key.Encode()
	return enc[:]
}

// AsBytes returns the public key as a fixed size array
func (k *PublicKey) AsBytes() [PublicKeyLength]byte {
	return k.key.Encode()
}
