package stream

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"couple-scheduler/internal/realtime"
)

const typeAuthenticate = "authenticate"

// Encode converts ev to its wire frame using the same JSON as the SSE feed.
func Encode(ev realtime.Event) (*structpb.Struct, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	m := new(structpb.Struct)
	if err := protojson.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("event to struct: %w", err)
	}
	return m, nil
}

// AuthenticateFrame is the first frame a client sends.
func AuthenticateFrame(token string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":  structpb.NewStringValue(typeAuthenticate),
		"token": structpb.NewStringValue(token),
	}}
}

func frameType(m *structpb.Struct) string {
	return m.GetFields()["type"].GetStringValue()
}

// frameToken accepts {"token":...} or {"data":{"token":...}}.
func frameToken(m *structpb.Struct) string {
	f := m.GetFields()
	if t := f["token"].GetStringValue(); t != "" {
		return t
	}
	return f["data"].GetStructValue().GetFields()["token"].GetStringValue()
}
