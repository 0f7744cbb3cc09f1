// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package parachaintypes

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spacemeshos/go-scale"
)

// WireVersion is the only announcement and attestation wire version understood.
const WireVersion byte = 1

var (
	// ErrDecode wraps every error returned when decoding wire data.
	ErrDecode = errors.New("malformed wire data")
	// ErrUnknownVersion is returned for a version byte other than WireVersion.
	ErrUnknownVersion = errors.New("unknown wire version")
	// ErrInvalidOption is returned for an option tag other than 0 or 1.
	ErrInvalidOption = errors.New("invalid option tag")
	// ErrTrailingBytes is returned when bytes remain after decoding a value.
	ErrTrailingBytes = errors.New("trailing bytes")
)

const (
	optionNone byte = 0
	optionSome byte = 1
)

func newEncoder(w io.Writer) *scale.Encoder {
	return scale.NewEncoder(w)
}

// EncodeAttestation encodes the attestation in its versioned wire form.
func EncodeAttestation(att SecondedAttestation) ([]byte, error) {
	return encode(&att)
}

// DecodeAttestation decodes a versioned attestation. It does not verify the signature.
func DecodeAttestation(data []byte) (att SecondedAttestation, err error) {
	err = decodeExact(data, &att)
	return att, err
}

// EncodeAnnouncement encodes the announcement in its versioned wire form.
func EncodeAnnouncement(msg AnnouncementMessage) ([]byte, error) {
	return encode(&msg)
}

// DecodeAnnouncement decodes a versioned announcement message.
func DecodeAnnouncement(data []byte) (msg AnnouncementMessage, err error) {
	err = decodeExact(data, &msg)
	return msg, err
}

// EncodeBlocks encodes a vector of candidate blocks.
func EncodeBlocks(blocks []CandidateBlock) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := scale.EncodeStructSlice(newEncoder(buf), blocks); err != nil {
		return nil, fmt.Errorf("encoding blocks: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBlocks decodes a vector of at most maxBlocks candidate blocks.
func DecodeBlocks(data []byte, maxBlocks uint32) ([]CandidateBlock, error) {
	dec := scale.NewDecoder(bytes.NewReader(data), scale.WithDecodeMaxElements(maxBlocks))
	blocks, n, err := scale.DecodeStructSlice[CandidateBlock](dec)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding blocks: %w", ErrDecode, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %w: %d bytes", ErrDecode, ErrTrailingBytes, len(data)-n)
	}
	return blocks, nil
}

func encode(value scale.Encodable) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := value.EncodeScale(newEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeExact(data []byte, value scale.Decodable) error {
	n, err := value.DecodeScale(scale.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: %w: %d bytes", ErrDecode, ErrTrailingBytes, len(data)-n)
	}
	return nil
}

func encodeVersion(enc *scale.Encoder) (int, error) {
	return scale.EncodeByte(enc, WireVersion)
}

func decodeVersion(dec *scale.Decoder) (int, error) {
	version, n, err := scale.DecodeByte(dec)
	if err != nil {
		return n, fmt.Errorf("decoding version: %w", err)
	}
	if version != WireVersion {
		return n, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	return n, nil
}

// EncodeHeader encodes the header the way the relay chain stores parachain head data.
func EncodeHeader(h Header) ([]byte, error) {
	return encode(&h)
}

// DecodeHeader decodes a header from parachain head data.
func DecodeHeader(data []byte) (h Header, err error) {
	err = decodeExact(data, &h)
	return h, err
}

// EncodeScale implements scale.Encodable.
func (h *Header) EncodeScale(enc *scale.Encoder) (int, error) {
	return h.encode(enc, true)
}

func (h *Header) encode(enc *scale.Encoder, bounded bool) (int, error) {
	var total int
	{
		n, err := scale.EncodeByteArray(enc, h.ParentHash[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, h.Number)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, h.StateRoot[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, h.ExtrinsicsRoot[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := h.Digest.encode(enc, bounded)
		if err != nil {
			return total, fmt.Errorf("encoding digest: %w", err)
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (h *Header) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		n, err := scale.DecodeByteArray(dec, h.ParentHash[:])
		if err != nil {
			return total, fmt.Errorf("decoding parent hash: %w", err)
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, fmt.Errorf("decoding number: %w", err)
		}
		total += n
		h.Number = field
	}
	{
		n, err := scale.DecodeByteArray(dec, h.StateRoot[:])
		if err != nil {
			return total, fmt.Errorf("decoding state root: %w", err)
		}
		total += n
	}
	{
		n, err := scale.DecodeByteArray(dec, h.ExtrinsicsRoot[:])
		if err != nil {
			return total, fmt.Errorf("decoding extrinsics root: %w", err)
		}
		total += n
	}
	{
		n, err := h.Digest.decode(dec)
		total += n
		if err != nil {
			return total, fmt.Errorf("decoding digest: %w", err)
		}
	}
	return total, nil
}

// EncodeScale implements scale.Encodable.
func (b *CandidateBlock) EncodeScale(enc *scale.Encoder) (int, error) {
	var total int
	{
		n, err := b.Header.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteSliceWithLimit(enc, b.Body, MaxBodySize)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (b *CandidateBlock) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		n, err := b.Header.DecodeScale(dec)
		if err != nil {
			return total, fmt.Errorf("decoding header: %w", err)
		}
		total += n
	}
	{
		field, n, err := scale.DecodeByteSliceWithLimit(dec, MaxBodySize)
		if err != nil {
			return total, fmt.Errorf("decoding body: %w", err)
		}
		total += n
		b.Body = field
	}
	return total, nil
}

// EncodeScale implements scale.Encodable.
func (a *SecondedAttestation) EncodeScale(enc *scale.Encoder) (int, error) {
	var total int
	{
		n, err := encodeVersion(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, field := range [][]byte{a.ValidatorID[:], a.RelayParent[:], a.CandidateHash[:], a.Signature[:]} {
		n, err := scale.EncodeByteArray(enc, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (a *SecondedAttestation) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		n, err := decodeVersion(dec)
		total += n
		if err != nil {
			return total, fmt.Errorf("attestation: %w", err)
		}
	}
	fields := []struct {
		name  string
		value []byte
	}{
		{name: "validator id", value: a.ValidatorID[:]},
		{name: "relay parent", value: a.RelayParent[:]},
		{name: "candidate hash", value: a.CandidateHash[:]},
		{name: "signature", value: a.Signature[:]},
	}
	for _, field := range fields {
		n, err := scale.DecodeByteArray(dec, field.value)
		if err != nil {
			return total, fmt.Errorf("decoding %s: %w", field.name, err)
		}
		total += n
	}
	return total, nil
}

// EncodeScale implements scale.Encodable.
func (m *AnnouncementMessage) EncodeScale(enc *scale.Encoder) (int, error) {
	var total int
	{
		n, err := encodeVersion(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := m.Header.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	if m.Attestation == nil {
		n, err := scale.EncodeByte(enc, optionNone)
		if err != nil {
			return total, err
		}
		return total + n, nil
	}
	{
		n, err := scale.EncodeByte(enc, optionSome)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := m.Attestation.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (m *AnnouncementMessage) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		n, err := decodeVersion(dec)
		total += n
		if err != nil {
			return total, fmt.Errorf("announcement: %w", err)
		}
	}
	{
		n, err := m.Header.DecodeScale(dec)
		if err != nil {
			return total, fmt.Errorf("decoding header: %w", err)
		}
		total += n
	}
	tag, n, err := scale.DecodeByte(dec)
	if err != nil {
		return total, fmt.Errorf("decoding attestation option: %w", err)
	}
	total += n

	switch tag {
	case optionNone:
		m.Attestation = nil
	case optionSome:
		var att SecondedAttestation
		n, err := att.DecodeScale(dec)
		if err != nil {
			return total, fmt.Errorf("decoding attestation: %w", err)
		}
		total += n
		m.Attestation = &att
	default:
		return total, fmt.Errorf("%w: %d", ErrInvalidOption, tag)
	}
	return total, nil
}
