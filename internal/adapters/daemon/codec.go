package daemon

import (
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/encoding"
)

// codecName is the content subtype both ends of the daemon connection agree on.
const codecName = "msgpack"

var _ encoding.Codec = msgpackCodec{}

// msgpackCodec encodes the daemon's plain Go messages with msgpack.
type msgpackCodec struct{}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (msgpackCodec) Name() string {
	return codecName
}
