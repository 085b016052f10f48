package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetBool returns boolean flag stored by key. Missing value is false.
func GetBool(ctx storage.Context, key any) bool {
	data := storage.Get(ctx, key)
	if data == nil {
		return false
	}
	return data.(bool)
}

// GetInt returns integer stored by key. Missing value is returned as def.
func GetInt(ctx storage.Context, key any, def int) int {
	data := storage.Get(ctx, key)
	if data == nil {
		return def
	}
	return data.(int)
}
