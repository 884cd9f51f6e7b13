package safecomms

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/safecomms/gosdk/internal"
)

// Result is the decoded body of a successful response. The service does not commit to a fixed
// response schema, so Result does not interpret it: it keeps the raw bytes exactly as received and
// a generic tree of maps, lists and scalars for convenient access.
//
//	res, err := client.ModerateText(ctx, req)
//	if err != nil {
//		return err
//	}
//	if flagged, ok := res.GetBool("flagged"); ok && flagged {
//		score, _ := res.GetNumber("score")
//		fmt.Printf("flagged with score %.2f\n", score)
//	}
//
// If you prefer your own struct, use Decode.
type Result struct {
	raw   []byte
	value *structpb.Value
}

func newResult(body []byte) (*Result, error) {
	value := &structpb.Value{}
	if err := protojson.Unmarshal(body, value); err == nil {
		return &Result{raw: body, value: value}, nil
	}

	// protojson rejects some valid JSON, such as duplicate keys or lone surrogate escapes.
	// encoding/json accepts it: the last duplicate wins and bad escapes become U+FFFD.
	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, &internal.DecodeError{Body: body, Err: err}
	}
	value, err := structpb.NewValue(tree)
	if err != nil {
		return nil, &internal.DecodeError{Body: body, Err: err}
	}
	return &Result{raw: body, value: value}, nil
}

// Raw returns the response body exactly as the service sent it.
func (r *Result) Raw() []byte {
	return r.raw
}

// Value returns the decoded response as a structpb.Value.
func (r *Result) Value() *structpb.Value {
	return r.value
}

// AsMap returns the response as a map. It returns nil if the response is not a JSON object.
func (r *Result) AsMap() map[string]any {
	s := r.value.GetStructValue()
	if s == nil {
		return nil
	}
	return s.AsMap()
}

// Get walks nested objects by key and returns the value found at the end of the path.
func (r *Result) Get(path ...string) (*structpb.Value, bool) {
	v := r.value
	for _, key := range path {
		s := v.GetStructValue()
		if s == nil {
			return nil, false
		}
		next, ok := s.GetFields()[key]
		if !ok {
			return nil, false
		}
		v = next
	}
	return v, true
}

// GetString returns the string at path. ok is false if the path is missing or not a string.
func (r *Result) GetString(path ...string) (string, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return "", false
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return s.StringValue, true
}

// GetBool returns the boolean at path. ok is false if the path is missing or not a boolean.
func (r *Result) GetBool(path ...string) (bool, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return false, false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, false
	}
	return b.BoolValue, true
}

// GetNumber returns the number at path. ok is false if the path is missing or not a number.
func (r *Result) GetNumber(path ...string) (float64, bool) {
	v, ok := r.Get(path...)
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	return n.NumberValue, true
}

// Decode unmarshals the raw response body into v.
func (r *Result) Decode(v any) error {
	return json.Unmarshal(r.raw, v)
}

// MarshalJSON returns the raw response body.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.raw, nil
}

func (r *Result) String() string {
	return string(r.raw)
}
