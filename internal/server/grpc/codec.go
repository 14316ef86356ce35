package grpc

import (
	"encoding/json"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// decode fills out from the request struct, using the model's json tags.
func decode(in *structpb.Struct, out any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	return nil
}

// encode turns a model into a response struct via its json tags.
func encode(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeList wraps a slice under key.
func encodeList[T any](key string, items []T) (*structpb.Struct, error) {
	if items == nil {
		items = []T{}
	}
	return encode(map[string][]T{key: items})
}

// str returns the string field name, or "" when absent or not a string.
func str(in *structpb.Struct, name string) string {
	if in == nil {
		return ""
	}
	return in.GetFields()[name].GetStringValue()
}

func empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}
