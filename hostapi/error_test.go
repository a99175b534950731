package hostapi

import (
	"strings"
	"testing"

	"github.com/echenim/bedrock/primitives"
)

func TestErrorCodeConversion(t *testing.T) {
	if Code(primitives.ErrOutOfGas).ToErrorCode() != primitives.ErrOutOfGas {
		t.Fatal("expected ERR_OUT_OF_GAS")
	}
	if Code(primitives.ErrBadPointer).ToErrorCode() != primitives.ErrBadPointer {
		t.Fatal("expected ERR_BAD_POINTER")
	}
	if Code(primitives.ErrOK).ToErrorCode() != primitives.ErrOK {
		t.Fatal("expected OK")
	}
}

func TestInternalMapsToErrInternal(t *testing.T) {
	err := Internal("something broke")
	if err.ToErrorCode() != primitives.ErrInternal {
		t.Fatalf("expected ERR_INTERNAL, got %v", err.ToErrorCode())
	}
}

func TestAllCodeVariants(t *testing.T) {
	cases := []primitives.ErrorCode{
		primitives.ErrOK, primitives.ErrBadPointer, primitives.ErrInvalidEncoding,
		primitives.ErrKeyTooLarge, primitives.ErrValueTooLarge, primitives.ErrWriteLimit,
		primitives.ErrEventLimit, primitives.ErrOutOfGas, primitives.ErrSigInvalid,
		primitives.ErrCryptoFailed, primitives.ErrInternal,
	}
	for _, code := range cases {
		if Code(code).ToErrorCode() != code {
			t.Fatalf("expected %v to round-trip, got %v", code, Code(code).ToErrorCode())
		}
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cases := []struct {
		err  *HostError
		want primitives.ErrorCode
	}{
		{OutOfGas(), primitives.ErrOutOfGas},
		{BadPointer(), primitives.ErrBadPointer},
		{KeyTooLarge(), primitives.ErrKeyTooLarge},
		{ValueTooLarge(), primitives.ErrValueTooLarge},
		{WriteLimit(), primitives.ErrWriteLimit},
		{EventLimit(), primitives.ErrEventLimit},
		{SigInvalid(), primitives.ErrSigInvalid},
		{CryptoFailed(), primitives.ErrCryptoFailed},
		{InvalidEncoding(), primitives.ErrInvalidEncoding},
	}
	for _, c := range cases {
		if c.err.ToErrorCode() != c.want {
			t.Fatalf("expected %v, got %v", c.want, c.err.ToErrorCode())
		}
	}
}

func TestDisplay(t *testing.T) {
	if !strings.Contains(Code(primitives.ErrOutOfGas).Error(), "ERR_OUT_OF_GAS") {
		t.Fatal("expected display to mention ERR_OUT_OF_GAS")
	}
	if !strings.Contains(Internal("disk full").Error(), "disk full") {
		t.Fatal("expected display to mention internal message")
	}
}

func TestFromExecError(t *testing.T) {
	hostErr := FromExecError(primitives.NewHostError(primitives.ErrSigInvalid))
	if hostErr.ToErrorCode() != primitives.ErrSigInvalid {
		t.Fatalf("expected host error to preserve code, got %v", hostErr.ToErrorCode())
	}

	blockErr := FromExecError(primitives.NewInvalidBlock("nonce mismatch"))
	if blockErr.ToErrorCode() != primitives.ErrInternal {
		t.Fatalf("expected non-host kinds to collapse to ERR_INTERNAL, got %v", blockErr.ToErrorCode())
	}
}
