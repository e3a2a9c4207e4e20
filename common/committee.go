package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/neo"
)

// CommitteeAddress returns multi address of the committee public keys
// with `M = N/2+1` threshold.
func CommitteeAddress() []byte {
	committee := neo.GetCommittee()

	keys := []interop.PublicKey{}
	for _, key := range committee {
		keys = append(keys, key)
	}

	return contract.CreateMultisigAccount(len(keys)/2+1, keys)
}
