package errors

import "encoding/json"

// schemaVersion tags the wire shape of Encoded so a consumer can detect a
// breaking change to the JSON layout.
const schemaVersion = "engine-error/v1"

// Encoded is the stable wire format for a Report, suitable for a host tool
// to consume across a process boundary.
type Encoded struct {
	Schema  string         `json:"schema"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ToJSON serializes r. Go's encoding/json already sorts map keys when
// marshaling a map[string]any, so Context comes out deterministic without
// any extra sorting pass.
func (r *Report) ToJSON(compact bool) (string, error) {
	enc := Encoded{Schema: schemaVersion, Kind: r.Kind, Message: r.Message, Context: r.Context, Fix: r.Fix}
	var (
		b   []byte
		err error
	)
	if compact {
		b, err = json.Marshal(enc)
	} else {
		b, err = json.MarshalIndent(enc, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SafeEncodeError serializes any error to JSON, falling back to a generic
// envelope when it doesn't carry a Report.
func SafeEncodeError(err error) string {
	if err == nil {
		return "{}"
	}
	if r, ok := AsReport(err); ok {
		if s, encErr := r.ToJSON(true); encErr == nil {
			return s
		}
	}
	b, encErr := json.Marshal(Encoded{Schema: schemaVersion, Kind: "unknown", Message: err.Error()})
	if encErr != nil {
		return "{}"
	}
	return string(b)
}
