package transport

import "encoding/json"

// Envelope wraps every API response, success or error.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  any    `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

func NewSuccess(data any, meta any) Envelope {
	return Envelope{Status: "success", Data: data, Meta: meta}
}

func NewError(code string, err any, meta any) Envelope {
	return Envelope{Status: "error", Code: code, Error: err, Meta: meta}
}

// String is the best-effort JSON form, for logging.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
