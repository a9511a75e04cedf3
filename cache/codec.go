package cache

import "github.com/vmihailenco/msgpack/v5"

// Codec converts a value to and from its cached snapshot representation.
type Codec[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(raw []byte) (T, error)
}

// msgpackCodec stores snapshots as msgpack documents. Field names are used as
// keys so records do not need msgpack tags.
type msgpackCodec[T any] struct{}

// NewMsgpackCodec returns the default snapshot codec.
func NewMsgpackCodec[T any]() Codec[T] {
	return msgpackCodec[T]{}
}

func (msgpackCodec[T]) Encode(value T) ([]byte, error) {
	return msgpack.Marshal(value)
}

func (msgpackCodec[T]) Decode(raw []byte) (T, error) {
	var value T
	if err := msgpack.Unmarshal(raw, &value); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}
