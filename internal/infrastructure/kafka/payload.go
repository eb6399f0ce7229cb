package kafka

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// PayloadEncoder кодирует запись журнала в protobuf Struct:
// event_id, event_type, path, occurred_at (RFC3339, UTC) и body (тело запроса к бэкенду).
type PayloadEncoder struct{}

func NewPayloadEncoder() *PayloadEncoder {
	return &PayloadEncoder{}
}

func (PayloadEncoder) Encode(record *usecase.SubmissionRecord) ([]byte, error) {
	const op = "PayloadEncoder.Encode"

	body, err := toStruct(record.Body)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	event := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"event_id":    structpb.NewStringValue(record.EventID),
			"event_type":  structpb.NewStringValue(string(record.EventType)),
			"path":        structpb.NewStringValue(record.Path),
			"occurred_at": structpb.NewStringValue(record.OccurredAt.UTC().Format(time.RFC3339Nano)),
			"body":        structpb.NewStructValue(body),
		},
	}

	payload, err := proto.Marshal(event)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return payload, nil
}

// toStruct переводит тело запроса в Struct через его JSON-представление, чтобы совпали имена полей.
func toStruct(body any) (*structpb.Struct, error) {
	if body == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	return structpb.NewStruct(fields)
}

// DecodePayload разбирает сообщение, записанное PayloadEncoder.
func DecodePayload(payload []byte) (*structpb.Struct, error) {
	event := &structpb.Struct{}
	if err := proto.Unmarshal(payload, event); err != nil {
		return nil, e.Wrap("kafka.DecodePayload", err)
	}

	return event, nil
}
