package primitives

import (
	"encoding/binary"
	"unicode/utf8"
)

// Reader is a forward-only cursor over a deterministic-codec byte buffer.
// Every method fails with ErrInvalidEncoding-flavored *ExecError on
// truncation or malformed content; callers should stop decoding at the
// first error.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func invalidEncoding(msg string) *ExecError {
	return NewSerializationError(msg)
}

// ReadBytes consumes exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, *ExecError) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, invalidEncoding("unexpected end of input")
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, *ExecError) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, *ExecError) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, *ExecError) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBool reads a single byte restricted to {0, 1}.
func (r *Reader) ReadBool() (bool, *ExecError) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, invalidEncoding("bool byte not 0 or 1")
	}
}

// ReadHash reads a fixed 32-byte Hash.
func (r *Reader) ReadHash() (Hash, *ExecError) {
	b, err := r.ReadBytes(32)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// ReadOptionalHash reads a one-byte presence tag (0=absent, 1=present)
// followed by 32 bytes when present.
func (r *Reader) ReadOptionalHash() (*Hash, *ExecError) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		h, err := r.ReadHash()
		if err != nil {
			return nil, err
		}
		return &h, nil
	default:
		return nil, invalidEncoding("optional tag not 0 or 1")
	}
}

// ReadVarBytes reads a u32-length-prefixed byte string.
func (r *Reader) ReadVarBytes() ([]byte, *ExecError) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadString reads a u32-length-prefixed, UTF-8-validated string.
func (r *Reader) ReadString() (string, *ExecError) {
	b, err := r.ReadVarBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", invalidEncoding("string is not valid utf-8")
	}
	return string(b), nil
}

// --- write helpers ---

func writeU8(out []byte, v uint8) []byte  { return append(out, v) }
func writeU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}
func writeU64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}
func writeBool(out []byte, v bool) []byte {
	if v {
		return append(out, 1)
	}
	return append(out, 0)
}
func writeHash(out []byte, h Hash) []byte { return append(out, h[:]...) }
func writeOptionalHash(out []byte, h *Hash) []byte {
	if h == nil {
		return append(out, 0)
	}
	out = append(out, 1)
	return writeHash(out, *h)
}
func writeVarBytes(out []byte, b []byte) []byte {
	out = writeU32(out, uint32(len(b)))
	return append(out, b...)
}
func writeString(out []byte, s string) []byte {
	return writeVarBytes(out, []byte(s))
}

// EncodeExecutionRequest serializes req into the deterministic wire format.
func EncodeExecutionRequest(req *ExecutionRequest) []byte {
	out := make([]byte, 0, 128+len(req.Transactions)*32)
	out = writeU32(out, req.APIVersion)
	out = writeVarBytes(out, req.ChainID)
	out = writeU64(out, req.BlockHeight)
	out = writeU64(out, req.BlockTime)
	out = writeHash(out, req.BlockHash)
	out = writeHash(out, req.PrevStateRoot)
	out = writeU32(out, uint32(len(req.Transactions)))
	for _, tx := range req.Transactions {
		out = writeVarBytes(out, tx)
	}
	out = writeU64(out, req.Limits.GasLimit)
	out = writeU32(out, req.Limits.MaxEvents)
	out = writeU32(out, req.Limits.MaxWriteBytes)
	out = writeOptionalHash(out, req.ExecutionSeed)
	return out
}

// DecodeExecutionRequest parses the bytes produced by EncodeExecutionRequest.
func DecodeExecutionRequest(data []byte) (*ExecutionRequest, *ExecError) {
	r := NewReader(data)
	req := &ExecutionRequest{}

	var err *ExecError
	if req.APIVersion, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if req.ChainID, err = r.ReadVarBytes(); err != nil {
		return nil, err
	}
	if req.BlockHeight, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if req.BlockTime, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if req.BlockHash, err = r.ReadHash(); err != nil {
		return nil, err
	}
	if req.PrevStateRoot, err = r.ReadHash(); err != nil {
		return nil, err
	}
	txCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	req.Transactions = make([][]byte, txCount)
	for i := range req.Transactions {
		if req.Transactions[i], err = r.ReadVarBytes(); err != nil {
			return nil, err
		}
	}
	if req.Limits.GasLimit, err = r.ReadU64(); err != nil {
		return nil, err
	}
	if req.Limits.MaxEvents, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if req.Limits.MaxWriteBytes, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if req.ExecutionSeed, err = r.ReadOptionalHash(); err != nil {
		return nil, err
	}
	return req, nil
}

// EncodeReceipt serializes a single Receipt.
func EncodeReceipt(out []byte, rc *Receipt) []byte {
	out = writeU32(out, rc.TxIndex)
	out = writeBool(out, rc.Success)
	out = writeU64(out, rc.GasUsed)
	out = writeU32(out, rc.ResultCode)
	out = writeVarBytes(out, rc.ReturnData)
	return out
}

// DecodeReceipt parses a single Receipt from r.
func DecodeReceipt(r *Reader) (Receipt, *ExecError) {
	var rc Receipt
	var err *ExecError
	if rc.TxIndex, err = r.ReadU32(); err != nil {
		return rc, err
	}
	if rc.Success, err = r.ReadBool(); err != nil {
		return rc, err
	}
	if rc.GasUsed, err = r.ReadU64(); err != nil {
		return rc, err
	}
	if rc.ResultCode, err = r.ReadU32(); err != nil {
		return rc, err
	}
	if rc.ReturnData, err = r.ReadVarBytes(); err != nil {
		return rc, err
	}
	return rc, nil
}

// EncodeEvent serializes a single Event.
func EncodeEvent(out []byte, e *Event) []byte {
	out = writeU32(out, e.TxIndex)
	out = writeString(out, e.EventType)
	out = writeU32(out, uint32(len(e.Attributes)))
	for _, attr := range e.Attributes {
		out = writeString(out, attr.Key)
		out = writeVarBytes(out, attr.Value)
	}
	return out
}

// DecodeEvent parses a single Event from r.
func DecodeEvent(r *Reader) (Event, *ExecError) {
	var e Event
	var err *ExecError
	if e.TxIndex, err = r.ReadU32(); err != nil {
		return e, err
	}
	if e.EventType, err = r.ReadString(); err != nil {
		return e, err
	}
	n, err := r.ReadU32()
	if err != nil {
		return e, err
	}
	e.Attributes = make([]EventAttribute, n)
	for i := range e.Attributes {
		if e.Attributes[i].Key, err = r.ReadString(); err != nil {
			return e, err
		}
		if e.Attributes[i].Value, err = r.ReadVarBytes(); err != nil {
			return e, err
		}
	}
	return e, nil
}

// EncodeSingleEvent serializes one Event standalone (used for the
// emit_event host call payload).
func EncodeSingleEvent(e *Event) []byte {
	return EncodeEvent(make([]byte, 0, 32), e)
}

// DecodeSingleEvent parses one standalone Event.
func DecodeSingleEvent(data []byte) (Event, *ExecError) {
	r := NewReader(data)
	return DecodeEvent(r)
}

// EncodeExecutionResponse serializes resp into the deterministic wire
// format. Field order and widths are normative: the Merkle root commits to
// state produced alongside this exact transcript.
func EncodeExecutionResponse(resp *ExecutionResponse) []byte {
	out := make([]byte, 0, 64+len(resp.Receipts)*32+len(resp.Events)*32)
	out = writeU32(out, resp.APIVersion)
	out = writeU8(out, uint8(resp.Status))
	out = writeHash(out, resp.NewStateRoot)
	out = writeU64(out, resp.GasUsed)

	out = writeU32(out, uint32(len(resp.Receipts)))
	for i := range resp.Receipts {
		out = EncodeReceipt(out, &resp.Receipts[i])
	}
	out = writeU32(out, uint32(len(resp.Events)))
	for i := range resp.Events {
		out = EncodeEvent(out, &resp.Events[i])
	}
	out = writeU32(out, uint32(len(resp.Logs)))
	for _, l := range resp.Logs {
		out = writeU32(out, l.Level)
		out = writeString(out, l.Message)
	}
	return out
}

// DecodeExecutionResponse parses the bytes produced by
// EncodeExecutionResponse.
func DecodeExecutionResponse(data []byte) (*ExecutionResponse, *ExecError) {
	r := NewReader(data)
	resp := &ExecutionResponse{}

	var err *ExecError
	if resp.APIVersion, err = r.ReadU32(); err != nil {
		return nil, err
	}
	statusByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	status, ok := ExecutionStatusFromU8(statusByte)
	if !ok {
		return nil, invalidEncoding("status byte out of range")
	}
	resp.Status = status
	if resp.NewStateRoot, err = r.ReadHash(); err != nil {
		return nil, err
	}
	if resp.GasUsed, err = r.ReadU64(); err != nil {
		return nil, err
	}

	rCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	resp.Receipts = make([]Receipt, rCount)
	for i := range resp.Receipts {
		if resp.Receipts[i], err = DecodeReceipt(r); err != nil {
			return nil, err
		}
	}

	eCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	resp.Events = make([]Event, eCount)
	for i := range resp.Events {
		if resp.Events[i], err = DecodeEvent(r); err != nil {
			return nil, err
		}
	}

	lCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	resp.Logs = make([]LogLine, lCount)
	for i := range resp.Logs {
		if resp.Logs[i].Level, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if resp.Logs[i].Message, err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// EncodeExecutionContext serializes ctx for the get_context host call.
func EncodeExecutionContext(ctx *ExecutionContext) []byte {
	out := make([]byte, 0, 96)
	out = writeVarBytes(out, ctx.ChainID)
	out = writeU64(out, ctx.BlockHeight)
	out = writeU64(out, ctx.BlockTime)
	out = writeHash(out, ctx.BlockHash)
	out = writeU64(out, ctx.GasLimit)
	out = writeU32(out, ctx.MaxEvents)
	out = writeU32(out, ctx.MaxWriteBytes)
	out = writeU32(out, ctx.APIVersion)
	out = writeOptionalHash(out, ctx.ExecutionSeed)
	return out
}

// DecodeExecutionContext parses the bytes produced by
// EncodeExecutionContext.
func DecodeExecutionContext(data []byte) (ExecutionContext, *ExecError) {
	r := NewReader(data)
	var ctx ExecutionContext
	var err *ExecError
	if ctx.ChainID, err = r.ReadVarBytes(); err != nil {
		return ctx, err
	}
	if ctx.BlockHeight, err = r.ReadU64(); err != nil {
		return ctx, err
	}
	if ctx.BlockTime, err = r.ReadU64(); err != nil {
		return ctx, err
	}
	if ctx.BlockHash, err = r.ReadHash(); err != nil {
		return ctx, err
	}
	if ctx.GasLimit, err = r.ReadU64(); err != nil {
		return ctx, err
	}
	if ctx.MaxEvents, err = r.ReadU32(); err != nil {
		return ctx, err
	}
	if ctx.MaxWriteBytes, err = r.ReadU32(); err != nil {
		return ctx, err
	}
	if ctx.APIVersion, err = r.ReadU32(); err != nil {
		return ctx, err
	}
	if ctx.ExecutionSeed, err = r.ReadOptionalHash(); err != nil {
		return ctx, err
	}
	return ctx, nil
}
