package txn

import (
	"fmt"
	"strings"

	"github.com/bsaptos/staking-sdk-go/pkg/account"
	"github.com/bsaptos/staking-sdk-go/pkg/bcs"
)

const payloadVariantEntryFunction = 2

// ModuleID names an on-chain module: owner address plus module name.
type ModuleID struct {
	Address account.Address
	Name    string
}

// String renders the module as <address>::<name>.
func (m ModuleID) String() string {
	return fmt.Sprintf("%s::%s", m.Address.String(), m.Name)
}

func (m ModuleID) MarshalBCS(serializer *bcs.Serializer) {
	serializer.Struct(m.Address)
	serializer.WriteString(m.Name)
}

func (m *ModuleID) UnmarshalBCS(deserializer *bcs.Deserializer) {
	deserializer.Struct(&m.Address)
	m.Name = deserializer.ReadString()
}

// EntryFunction is the call descriptor for one entry-function invocation.
// Arguments are already BCS encoded. Type arguments are carried as raw BCS
// TypeTag bytes; the staking program takes none.
type EntryFunction struct {
	Module   ModuleID
	Function string
	TypeArgs [][]byte
	Args     [][]byte
}

// NewEntryFunction creates an EntryFunction, copying the argument slices so
// the descriptor cannot be mutated through the caller's backing arrays.
func NewEntryFunction(module ModuleID, function string, typeArgs [][]byte, args [][]byte) EntryFunction {
	return EntryFunction{
		Module:   module,
		Function: function,
		TypeArgs: cloneArgs(typeArgs),
		Args:     cloneArgs(args),
	}
}

func cloneArgs(args [][]byte) [][]byte {
	out := make([][]byte, len(args))
	for index, arg := range args {
		out[index] = append([]byte(nil), arg...)
	}
	return out
}

// ID renders the fully qualified function name.
func (e EntryFunction) ID() string {
	return fmt.Sprintf("%s::%s", e.Module.String(), e.Function)
}

// Validate checks the descriptor has a module and function name.
func (e EntryFunction) Validate() error {
	if strings.TrimSpace(e.Module.Name) == "" {
		return fmt.Errorf("module name is required")
	}
	if strings.TrimSpace(e.Function) == "" {
		return fmt.Errorf("function name is required")
	}
	return nil
}

// MarshalBCS writes the TransactionPayload::EntryFunction variant.
func (e EntryFunction) MarshalBCS(serializer *bcs.Serializer) {
	serializer.Uleb128(payloadVariantEntryFunction)
	serializer.Struct(e.Module)
	serializer.WriteString(e.Function)
	serializer.Uleb128(uint32(len(e.TypeArgs)))
	for _, typeArg := range e.TypeArgs {
		serializer.FixedBytes(typeArg)
	}
	serializer.Uleb128(uint32(len(e.Args)))
	for _, arg := range e.Args {
		serializer.WriteBytes(arg)
	}
}

// UnmarshalBCS reads a TransactionPayload::EntryFunction with no type arguments.
func (e *EntryFunction) UnmarshalBCS(deserializer *bcs.Deserializer) {
	if variant := deserializer.Uleb128(); variant != payloadVariantEntryFunction {
		deserializer.SetError(fmt.Errorf("unsupported payload variant %d", variant))
		return
	}
	deserializer.Struct(&e.Module)
	e.Function = deserializer.ReadString()
	if typeArgs := deserializer.Uleb128(); typeArgs != 0 {
		deserializer.SetError(fmt.Errorf("decoding type arguments is not supported"))
		return
	}
	count := deserializer.Uleb128()
	e.TypeArgs = [][]byte{}
	e.Args = make([][]byte, 0, count)
	for index := uint32(0); index < count && deserializer.Error() == nil; index++ {
		e.Args = append(e.Args, deserializer.ReadBytes())
	}
}
