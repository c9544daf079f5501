package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	encodingHex    = "hex"
	encodingBase64 = "base64"
	encodingBase58 = "base58"
)

func encodeBytes(encoding string, b []byte) (string, error) {
	switch encoding {
	case encodingHex:
		return hex.EncodeToString(b), nil
	case encodingBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	case encodingBase58:
		return base58.Encode(b), nil
	default:
		return "", fmt.Errorf("unsupported encoding '%s'", encoding)
	}
}

func decodeBytes(encoding string, s string) ([]byte, error) {
	var (
		b   []byte
		err error
	)

	switch encoding {
	case encodingHex:
		b, err = hex.DecodeString(s)
	case encodingBase64:
		b, err = base64.StdEncoding.DecodeString(s)
	case encodingBase58:
		if s == "" {
			return []byte{}, nil
		}
		b, err = base58.Decode(s)
	default:
		return nil, fmt.Errorf("unsupported encoding '%s'", encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", encoding, err)
	}
	return b, nil
}
