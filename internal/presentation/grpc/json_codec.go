package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// The wire messages in proto.go are plain structs, so calls are encoded as
// JSON instead of protobuf. Clients must request the "json" codec.
type jsonCodec struct{}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "json" }
