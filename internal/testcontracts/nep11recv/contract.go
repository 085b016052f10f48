package nep11recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Call is the last received credential.
type Call struct {
	From    interop.Hash160
	TokenID []byte
	Data    any
}

const (
	callKey    = "call"
	reentryKey = "reentry"
	catchKey   = "catch"
	faultKey   = "fault"
)

// SetReentry makes the next OnNEP11Payment call back claimNFT of the sender
// with the given claim. If catch is true, the failure of the nested call is
// recorded instead of being propagated.
func SetReentry(claim interop.Hash256, catch bool) {
	ctx := storage.GetContext()
	storage.Put(ctx, reentryKey, claim)
	storage.Put(ctx, catchKey, catch)
}

func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	if amount != 1 {
		panic("wrong amount")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, callKey, std.Serialize(Call{
		From:    from,
		TokenID: tokenID,
		Data:    data,
	}))

	claim := storage.Get(ctx, reentryKey)
	if claim == nil {
		return
	}
	storage.Delete(ctx, reentryKey)

	registry := runtime.GetCallingScriptHash()
	if storage.Get(ctx, catchKey).(bool) {
		reenterCatching(ctx, registry, claim.(interop.Hash256))
		return
	}
	reenter(registry, claim.(interop.Hash256))
}

func reenter(registry interop.Hash160, claim interop.Hash256) {
	contract.Call(registry, "claimNFT", contract.All, claim, runtime.GetExecutingScriptHash())
}

func reenterCatching(ctx storage.Context, registry interop.Hash160, claim interop.Hash256) {
	defer func() {
		if r := recover(); r != nil {
			storage.Put(ctx, faultKey, r.(string))
		}
	}()
	reenter(registry, claim)
}

// Get returns the last received credential.
func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), callKey)
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

// Fault returns the message of the caught nested call failure.
func Fault() string {
	val := storage.Get(storage.GetReadOnlyContext(), faultKey)
	if val == nil {
		return ""
	}
	return val.(string)
}

func Verify() bool {
	return true
}
