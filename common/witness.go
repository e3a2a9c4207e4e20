package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrOwnerWitnessFailed appears when the method must be called
// by the registry owner but was not.
const ErrOwnerWitnessFailed = "caller is not the registry owner"

// CheckOwnerWitness checks witness of the passed owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner interop.Hash160) {
	if !runtime.CheckWitness(owner) {
		panic(ErrOwnerWitnessFailed)
	}
}
