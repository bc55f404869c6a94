package gateway

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vmihailenco/msgpack/v5"
)

// Signature is the r/s/v triple attached to every /exchange payload.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
	V uint8  `json:"v"`
}

// Signer holds the API wallet key and produces Hyperliquid L1 action
// signatures. The signing identity is a plain secp256k1 keypair; the derived
// address is the API wallet address registered on the account.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner parses a 0x-prefixed hex private key.
func NewSigner(hexKey string) (*Signer, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the API wallet address derived from the key.
func (s *Signer) Address() common.Address {
	return s.address
}

// actionHash computes the "connection id" the exchange verifies: keccak256
// over the msgpack-encoded action, the nonce as 8 big-endian bytes, and a
// trailing 0x00 marking the absence of a vault address.
func actionHash(action any, nonce int64) (common.Hash, error) {
	data, err := msgpack.Marshal(action)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode action: %w", err)
	}
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], uint64(nonce))
	data = append(data, nonceBytes[:]...)
	data = append(data, 0x00) // no vault address
	return crypto.Keccak256Hash(data), nil
}

// SignL1Action signs an exchange action for the given nonce. The typed-data
// source is "a" on mainnet and "b" on testnet; the phantom chain id 1337 is
// fixed by the protocol and unrelated to any real network.
func (s *Signer) SignL1Action(action any, nonce int64, isMainnet bool) (Signature, error) {
	connectionID, err := actionHash(action, nonce)
	if err != nil {
		return Signature{}, err
	}

	source := "a"
	if !isMainnet {
		source = "b"
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Agent": []apitypes.Type{
				{Name: "source", Type: "string"},
				{Name: "connectionId", Type: "bytes32"},
			},
		},
		PrimaryType: "Agent",
		Domain: apitypes.TypedDataDomain{
			Name:              "Exchange",
			Version:           "1",
			ChainId:           (*math.HexOrDecimal256)(big.NewInt(1337)),
			VerifyingContract: common.Address{}.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"source":       source,
			"connectionId": hexutil.Encode(connectionID[:]),
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return Signature{}, fmt.Errorf("hash domain: %w", err)
	}
	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return Signature{}, fmt.Errorf("hash message: %w", err)
	}
	digest := crypto.Keccak256Hash([]byte("\x19\x01"), domainSeparator, messageHash)

	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return Signature{}, fmt.Errorf("sign action: %w", err)
	}

	return Signature{
		R: hexutil.Encode(sig[:32]),
		S: hexutil.Encode(sig[32:64]),
		V: sig[64] + 27,
	}, nil
}
