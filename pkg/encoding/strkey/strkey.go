/*
Package strkey implements the "strkey" textual representation of account
ids, contract ids and secret seeds: a version byte and a payload encoded with
RFC 4648 base32 (no padding) and protected by a CRC16-XModem checksum.
*/
package strkey

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
)

// VersionByte denotes the kind of data encoded into a strkey, it determines
// the first character of the resulting string.
type VersionByte byte

// Known version bytes.
const (
	// VersionAccount is used for ed25519 public keys ("G...").
	VersionAccount VersionByte = 6 << 3
	// VersionSeed is used for ed25519 secret seeds ("S...").
	VersionSeed VersionByte = 18 << 3
	// VersionContract is used for contract ids ("C...").
	VersionContract VersionByte = 2 << 3
)

// PayloadSize is the size of the payload for all supported version bytes.
const PayloadSize = 32

var (
	// ErrInvalidChecksum is returned when the checksum doesn't match.
	ErrInvalidChecksum = errors.New("invalid checksum")
	// ErrInvalidVersion is returned when the version byte is unknown or
	// doesn't match the expected one.
	ErrInvalidVersion = errors.New("invalid version byte")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// String implements the fmt.Stringer interface.
func (v VersionByte) String() string {
	switch v {
	case VersionAccount:
		return "account"
	case VersionSeed:
		return "seed"
	case VersionContract:
		return "contract"
	default:
		return fmt.Sprintf("VersionByte(%d)", byte(v))
	}
}

func (v VersionByte) isValid() bool {
	return v == VersionAccount || v == VersionSeed || v == VersionContract
}

// Encode encodes the payload with the given version byte.
func Encode(v VersionByte, payload []byte) (string, error) {
	if !v.isValid() {
		return "", ErrInvalidVersion
	}
	if len(payload) != PayloadSize {
		return "", fmt.Errorf("invalid payload length %d", len(payload))
	}
	raw := make([]byte, 0, 1+PayloadSize+2)
	raw = append(raw, byte(v))
	raw = append(raw, payload...)
	raw = binary.LittleEndian.AppendUint16(raw, crc16(raw))
	return encoding.EncodeToString(raw), nil
}

// MustEncode is Encode that panics on error, it's only useful for
// constant data.
func MustEncode(v VersionByte, payload []byte) string {
	s, err := Encode(v, payload)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode decodes the given string checking that it has the expected version
// byte.
func Decode(expected VersionByte, s string) ([]byte, error) {
	v, payload, err := DecodeAny(s)
	if err != nil {
		return nil, err
	}
	if v != expected {
		return nil, fmt.Errorf("%w: %s expected, got %s", ErrInvalidVersion, expected, v)
	}
	return payload, nil
}

// DecodeAny decodes the given string returning its version byte and payload.
func DecodeAny(s string) (VersionByte, []byte, error) {
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base32: %w", err)
	}
	if len(raw) != 1+PayloadSize+2 {
		return 0, nil, fmt.Errorf("invalid decoded length %d", len(raw))
	}
	// Base32 tolerates non-canonical trailing bits, re-encode to catch them.
	if encoding.EncodeToString(raw) != s {
		return 0, nil, errors.New("non-canonical encoding")
	}
	data, sum := raw[:len(raw)-2], binary.LittleEndian.Uint16(raw[len(raw)-2:])
	if crc16(data) != sum {
		return 0, nil, ErrInvalidChecksum
	}
	v := VersionByte(data[0])
	if !v.isValid() {
		return 0, nil, ErrInvalidVersion
	}
	return v, data[1:], nil
}

// crc16 calculates CRC16-XModem checksum (polynomial 0x1021, zero init).
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
