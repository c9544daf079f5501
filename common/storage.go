package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetSerialized returns deserialized value stored by the key or nil if
// there is no such key.
func GetSerialized(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}
	return std.Deserialize(data.([]byte))
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetInt returns integer stored by the key and a flag telling whether the
// key exists. Zero is stored as an empty byte string, so presence is the
// only way to tell it from an absent value.
func GetInt(ctx storage.Context, key any) (int, bool) {
	data := storage.Get(ctx, key)
	if data == nil {
		return 0, false
	}
	return data.(int), true
}
