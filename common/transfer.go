package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}

// CheckGASPayment aborts execution if the NEP-17 payment callback was
// triggered by anything other than the native GAS contract.
func CheckGASPayment(contractName string) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		AbortWithMessage(contractName + " contract accepts GAS only")
	}
}

// SelfBalance returns GAS balance of the executing contract.
func SelfBalance() int {
	return gas.BalanceOf(interop.Hash160(runtime.GetExecutingScriptHash()))
}
