package engine

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/echenim/bedrock/primitives"
)

// Transactions are received as opaque bytes in the ExecutionRequest. This
// file decodes them into typed structures, validates signatures and
// nonces, and processes the resulting state transition.
//
// Wire format (little-endian):
//
//	[sender: 32 bytes]
//	[nonce: 8 bytes LE]
//	[payload_type: 1 byte]   0x01 = Transfer{to: 32 bytes, amount: 8 bytes LE}
//	[public_key: 32 bytes]
//	[signature: 64 bytes]
//
// The signature covers everything before the public_key field:
// sender || nonce || payload_type || payload_data.

const (
	payloadTransfer = 0x01

	// sender(32) + nonce(8) + payload_type(1) + transfer_payload(40) + pubkey(32) + sig(64)
	minTransferTxSize = 32 + 8 + 1 + 32 + 8 + 32 + 64
)

var (
	balancePrefix = []byte("acct/")
	balanceSuffix = []byte("/balance")
	nonceSuffix   = []byte("/nonce")
)

// PayloadKind discriminates TransactionPayload variants.
type PayloadKind uint8

const (
	// PayloadKindTransfer moves tokens from the sender to a recipient.
	PayloadKindTransfer PayloadKind = iota + 1
)

// TransactionPayload holds the decoded payload. Only Transfer exists today;
// the Kind tag keeps the struct forward-extensible without an interface.
type TransactionPayload struct {
	Kind   PayloadKind
	To     primitives.Address
	Amount uint64
}

// DecodedTransaction is a transaction decoded from its wire bytes, ready
// for signature verification and state-transition processing.
type DecodedTransaction struct {
	Sender     primitives.Address
	Nonce      uint64
	Payload    TransactionPayload
	PublicKey  [32]byte
	Signature  [64]byte
	SignedData []byte // the bytes the signature covers
}

// DecodeTransaction parses a raw transaction from wire bytes.
func DecodeTransaction(raw []byte) (*DecodedTransaction, *primitives.ExecError) {
	if len(raw) < minTransferTxSize {
		return nil, primitives.NewSerializationError("transaction too short")
	}

	pos := 0
	var sender primitives.Address
	copy(sender[:], raw[pos:pos+32])
	pos += 32

	nonce := binary.LittleEndian.Uint64(raw[pos : pos+8])
	pos += 8

	payloadType := raw[pos]
	pos++

	var payload TransactionPayload
	switch payloadType {
	case payloadTransfer:
		if len(raw) < pos+32+8+32+64 {
			return nil, primitives.NewSerializationError("transfer payload too short")
		}
		var to primitives.Address
		copy(to[:], raw[pos:pos+32])
		pos += 32
		amount := binary.LittleEndian.Uint64(raw[pos : pos+8])
		pos += 8
		payload = TransactionPayload{Kind: PayloadKindTransfer, To: to, Amount: amount}
	default:
		return nil, primitives.NewSerializationError(fmt.Sprintf("unknown payload type: 0x%02x", payloadType))
	}

	signedData := append([]byte(nil), raw[:pos]...)

	if len(raw) < pos+32+64 {
		return nil, primitives.NewSerializationError("missing public key or signature")
	}
	var pubKey [32]byte
	copy(pubKey[:], raw[pos:pos+32])
	pos += 32

	var sig [64]byte
	copy(sig[:], raw[pos:pos+64])

	return &DecodedTransaction{
		Sender:     sender,
		Nonce:      nonce,
		Payload:    payload,
		PublicKey:  pubKey,
		Signature:  sig,
		SignedData: signedData,
	}, nil
}

func balanceKey(addr primitives.Address) []byte {
	key := make([]byte, 0, len(balancePrefix)+32+len(balanceSuffix))
	key = append(key, balancePrefix...)
	key = append(key, addr[:]...)
	key = append(key, balanceSuffix...)
	return key
}

func nonceKey(addr primitives.Address) []byte {
	key := make([]byte, 0, len(balancePrefix)+32+len(nonceSuffix))
	key = append(key, balancePrefix...)
	key = append(key, addr[:]...)
	key = append(key, nonceSuffix...)
	return key
}

func readBalance(host HostInterface, addr primitives.Address) (uint64, *primitives.ExecError) {
	val, err := host.StateGet(balanceKey(addr))
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	if len(val) != 8 {
		return 0, primitives.NewSerializationError("corrupt balance")
	}
	return binary.LittleEndian.Uint64(val), nil
}

func readNonce(host HostInterface, addr primitives.Address) (uint64, *primitives.ExecError) {
	val, err := host.StateGet(nonceKey(addr))
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	if len(val) != 8 {
		return 0, primitives.NewSerializationError("corrupt nonce")
	}
	return binary.LittleEndian.Uint64(val), nil
}

func writeBalance(host HostInterface, addr primitives.Address, balance uint64) *primitives.ExecError {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], balance)
	return host.StateSet(balanceKey(addr), buf[:])
}

func writeNonce(host HostInterface, addr primitives.Address, nonce uint64) *primitives.ExecError {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nonce)
	return host.StateSet(nonceKey(addr), buf[:])
}

// ProcessTransaction processes a single decoded transaction against host
// state, metering gas through host.GasMeter(). A transaction failure
// produces a failed Receipt but never aborts block execution — that
// decision belongs to the caller (ExecuteBlock), which inspects the gas
// meter after every call.
func ProcessTransaction(txIndex uint32, tx *DecodedTransaction, host HostInterface) primitives.Receipt {
	gasBefore := host.GasMeter().Consumed()

	events, err := processTransactionInner(txIndex, tx, host)
	if err != nil {
		return primitives.Receipt{
			TxIndex:    txIndex,
			Success:    false,
			GasUsed:    host.GasMeter().Consumed() - gasBefore,
			ResultCode: receiptResultCode(err),
			ReturnData: nil,
		}
	}

	for _, event := range events {
		// Event-emission failure (e.g. max_events reached) does not fail
		// an otherwise-successful transaction.
		_ = host.EmitEvent(event)
	}

	return primitives.Receipt{
		TxIndex:    txIndex,
		Success:    true,
		GasUsed:    host.GasMeter().Consumed() - gasBefore,
		ResultCode: 0,
		ReturnData: nil,
	}
}

// receiptResultCode maps a transaction-processing error to the result_code
// carried in its failed Receipt. This differs from ExecError.ToErrorCode
// (which governs the guest ABI boundary and collapses every non-Host kind
// to 10): gas exhaustion surfaces as 7 here to match the host-call error
// taxonomy, and InvalidBlock collapses nonce mismatches, insufficient
// balance, and overflow all onto 1, so the receipt does not tell these
// causes apart.
func receiptResultCode(err *primitives.ExecError) uint32 {
	switch err.Kind {
	case primitives.ExecErrKindHost:
		return uint32(err.Code)
	case primitives.ExecErrKindOutOfGas:
		return uint32(primitives.ErrOutOfGas)
	case primitives.ExecErrKindInvalidBlock:
		return 1
	case primitives.ExecErrKindSerialization:
		return uint32(primitives.ErrInvalidEncoding)
	default:
		return uint32(primitives.ErrInternal)
	}
}

func processTransactionInner(txIndex uint32, tx *DecodedTransaction, host HostInterface) ([]primitives.Event, *primitives.ExecError) {
	if err := host.GasMeter().Charge(primitives.GVerifyEd25519); err != nil {
		return nil, err
	}

	if !host.VerifyEd25519(tx.SignedData, &tx.Signature, &tx.PublicKey) {
		return nil, primitives.NewHostError(primitives.ErrSigInvalid)
	}

	nonceKeyBytes := nonceKey(tx.Sender)
	if err := host.GasMeter().Charge(primitives.GasCostStateGet(len(nonceKeyBytes))); err != nil {
		return nil, err
	}
	currentNonce, err := readNonce(host, tx.Sender)
	if err != nil {
		return nil, err
	}
	if tx.Nonce != currentNonce {
		return nil, primitives.NewInvalidBlock(fmt.Sprintf("nonce mismatch: expected %d, got %d", currentNonce, tx.Nonce))
	}

	var events []primitives.Event
	switch tx.Payload.Kind {
	case PayloadKindTransfer:
		events, err = executeTransfer(txIndex, tx.Sender, tx.Payload.To, tx.Payload.Amount, host)
		if err != nil {
			return nil, err
		}
	}

	nonceKeyBytes = nonceKey(tx.Sender)
	if err := host.GasMeter().Charge(primitives.GasCostStateSet(len(nonceKeyBytes), 8)); err != nil {
		return nil, err
	}
	if err := writeNonce(host, tx.Sender, currentNonce+1); err != nil {
		return nil, err
	}

	return events, nil
}

func executeTransfer(txIndex uint32, sender, to primitives.Address, amount uint64, host HostInterface) ([]primitives.Event, *primitives.ExecError) {
	senderKey := balanceKey(sender)
	if err := host.GasMeter().Charge(primitives.GasCostStateGet(len(senderKey))); err != nil {
		return nil, err
	}
	senderBalance, err := readBalance(host, sender)
	if err != nil {
		return nil, err
	}
	if senderBalance < amount {
		return nil, primitives.NewInvalidBlock(fmt.Sprintf("insufficient balance: have %d, need %d", senderBalance, amount))
	}

	toKey := balanceKey(to)
	if err := host.GasMeter().Charge(primitives.GasCostStateGet(len(toKey))); err != nil {
		return nil, err
	}
	toBalance, err := readBalance(host, to)
	if err != nil {
		return nil, err
	}
	newToBalance, overflowed := primitives.CheckedAddU64(toBalance, amount)
	if overflowed {
		return nil, primitives.NewInvalidBlock("recipient balance overflow")
	}

	if err := host.GasMeter().Charge(primitives.GasCostStateSet(len(senderKey), 8)); err != nil {
		return nil, err
	}
	if err := writeBalance(host, sender, senderBalance-amount); err != nil {
		return nil, err
	}

	if err := host.GasMeter().Charge(primitives.GasCostStateSet(len(toKey), 8)); err != nil {
		return nil, err
	}
	if err := writeBalance(host, to, newToBalance); err != nil {
		return nil, err
	}

	event := primitives.Event{
		TxIndex:   txIndex,
		EventType: "transfer",
		Attributes: []primitives.EventAttribute{
			{Key: "sender", Value: append([]byte(nil), sender[:]...)},
			{Key: "recipient", Value: append([]byte(nil), to[:]...)},
			{Key: "amount", Value: le64(amount)},
		},
	}
	return []primitives.Event{event}, nil
}

func le64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// EncodeTransferTx builds a signed transfer transaction's wire bytes. It is
// used by tests and by callers constructing sample blocks; production
// transaction construction happens on the client side, outside this engine.
func EncodeTransferTx(sender primitives.Address, nonce uint64, to primitives.Address, amount uint64, signingKey ed25519.PrivateKey) []byte {
	signedData := make([]byte, 0, minTransferTxSize)
	signedData = append(signedData, sender[:]...)
	signedData = append(signedData, le64(nonce)...)
	signedData = append(signedData, payloadTransfer)
	signedData = append(signedData, to[:]...)
	signedData = append(signedData, le64(amount)...)

	signature := ed25519.Sign(signingKey, signedData)
	publicKey := signingKey.Public().(ed25519.PublicKey)

	raw := append([]byte(nil), signedData...)
	raw = append(raw, publicKey...)
	raw = append(raw, signature...)
	return raw
}
