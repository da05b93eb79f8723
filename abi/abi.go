// Package abi translates between typed method invocations and the raw call
// data exchanged with contracts. Encoding and decoding follow the standard
// head/tail ABI rules via go-ethereum's implementation; this package owns the
// name indexing, the error taxonomy, and the lenient decode fallback needed
// for nonstandard nodes.
package abi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/evmlabs/evmsdk/types"
)

var (
	// ErrInvalidABI indicates that the interface description could not be parsed.
	ErrInvalidABI = errors.New("invalid ABI")

	// ErrUnknownMethod indicates that the requested method name is not part
	// of the parsed interface.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrUnknownEvent indicates that the requested event name is not part of
	// the parsed interface.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrMissingConstructor indicates that constructor arguments were
	// supplied but the interface declares no constructor.
	ErrMissingConstructor = errors.New("ABI declares no constructor")

	// ErrEncoding indicates an argument shape or count mismatch during
	// encoding, or undecodable return data.
	ErrEncoding = errors.New("encoding error")
)

// Method describes a callable contract function.
type Method struct {
	// Name is the method name used for lookup.
	Name string

	// Inputs and Outputs are the declared parameter type strings, in order.
	Inputs  []string
	Outputs []string

	// Constant reports whether the method is read-only (view or pure).
	Constant bool
}

// Event describes a declared contract event.
type Event struct {
	// Name is the event name used for lookup.
	Name string

	// Inputs are the declared parameter type strings, in order.
	Inputs []string
}

// ABI is a parsed contract interface. It is immutable after construction and
// safe to share read-only between contract instances.
type ABI struct {
	abi            gethabi.ABI
	raw            string
	methods        map[string]Method
	events         map[string]Event
	hasConstructor bool
}

// Parse builds an ABI from its JSON interface description. It fails with
// ErrInvalidABI when the input is empty or not a well-formed interface list.
func Parse(raw string) (*ABI, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty interface description", ErrInvalidABI)
	}

	parsed, err := gethabi.JSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}

	// The constructor has no name, so its presence has to be detected from
	// the raw entry list rather than the method table.
	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}

	a := &ABI{
		abi:     parsed,
		raw:     raw,
		methods: make(map[string]Method, len(parsed.Methods)),
		events:  make(map[string]Event, len(parsed.Events)),
	}

	for _, entry := range entries {
		if entry.Type == "constructor" {
			a.hasConstructor = true
		}
	}

	for name, m := range parsed.Methods {
		a.methods[name] = Method{
			Name:     name,
			Inputs:   argumentTypes(m.Inputs),
			Outputs:  argumentTypes(m.Outputs),
			Constant: m.StateMutability == "view" || m.StateMutability == "pure",
		}
	}

	for name, e := range parsed.Events {
		a.events[name] = Event{
			Name:   name,
			Inputs: argumentTypes(e.Inputs),
		}
	}

	return a, nil
}

func argumentTypes(args gethabi.Arguments) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg.Type.String()
	}
	return out
}

// RawJSON returns the interface description the ABI was parsed from.
func (a *ABI) RawJSON() string {
	return a.raw
}

// Method returns the descriptor for the named function.
func (a *ABI) Method(name string) (Method, bool) {
	m, ok := a.methods[name]
	return m, ok
}

// Event returns the descriptor for the named event.
func (a *ABI) Event(name string) (Event, bool) {
	e, ok := a.events[name]
	return e, ok
}

// EncodeCall encodes a method invocation as call data: the 4-byte selector
// followed by the head/tail-encoded argument tuple. It fails with
// ErrUnknownMethod when the method is not declared, and wraps ErrEncoding on
// argument shape or count mismatches.
func (a *ABI) EncodeCall(method string, args ...any) ([]byte, error) {
	if _, ok := a.methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	data, err := a.abi.Pack(method, normalizeArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return data, nil
}

// EncodeConstructor encodes constructor arguments for appending to deployment
// bytecode. Calling it without arguments yields empty data; supplying
// arguments when the interface declares no constructor fails with
// ErrMissingConstructor.
func (a *ABI) EncodeConstructor(args ...any) ([]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}

	if !a.hasConstructor {
		return nil, ErrMissingConstructor
	}

	data, err := a.abi.Pack("", normalizeArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return data, nil
}

// DecodeResult decodes return data from a method call into the declared
// output values, in order. Empty data decodes to an empty result regardless
// of the declared outputs, which is how no-content responses surface. When a
// strict decode of a single unsigned-integer output fails, the trailing 32
// bytes (or the whole payload when shorter) are reinterpreted as a big-endian
// integer; some nodes pad or truncate return data and this keeps them usable.
func (a *ABI) DecodeResult(method string, data []byte) ([]any, error) {
	m, ok := a.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	if len(data) == 0 {
		return []any{}, nil
	}

	values, err := m.Outputs.Unpack(data)
	if err != nil {
		if fallback, ok := decodeUintFallback(m.Outputs, data); ok {
			return fallback, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return normalizeResults(values), nil
}

// decodeUintFallback reinterprets nonstandard return data for a single
// unsigned-integer output as a big-endian integer.
func decodeUintFallback(outputs gethabi.Arguments, data []byte) ([]any, bool) {
	if len(outputs) != 1 || outputs[0].Type.T != gethabi.UintTy {
		return nil, false
	}

	if len(data) > 32 {
		data = data[len(data)-32:]
	}

	return []any{new(big.Int).SetBytes(data)}, true
}

// normalizeArgs converts SDK value types into the representations the
// underlying encoder expects.
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case types.Address:
			out[i] = gethcommon.Address(v)
		case *types.Address:
			out[i] = gethcommon.Address(*v)
		case types.Hash:
			out[i] = [32]byte(v)
		default:
			out[i] = arg
		}
	}
	return out
}

// normalizeResults converts decoded values back into SDK value types.
func normalizeResults(values []any) []any {
	for i, v := range values {
		if addr, ok := v.(gethcommon.Address); ok {
			values[i] = types.Address(addr)
		}
	}
	return values
}
