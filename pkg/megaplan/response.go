package megaplan

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is a decoded reply of the service:
//
//	{"status": {"code": "ok"}, "data": {...}}
type Response struct {
	raw   []byte
	value gjson.Result
}

func newResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse.Msg("reply is not valid JSON")
	}
	return &Response{raw: body, value: gjson.ParseBytes(body)}, nil
}

// Status returns status.code, "ok" or "error".
func (r *Response) Status() string {
	return r.value.Get("status.code").String()
}

// Message returns status.message, if any.
func (r *Response) Message() string {
	return r.value.Get("status.message").String()
}

// Data returns the data member of the reply.
func (r *Response) Data() gjson.Result {
	return r.value.Get("data")
}

// Get returns the value at a gjson path, such as "data.tasks.0.Name".
func (r *Response) Get(path string) gjson.Result {
	return r.value.Get(path)
}

// Value returns the whole reply.
func (r *Response) Value() gjson.Result {
	return r.value
}

// Raw returns the reply body as received.
func (r *Response) Raw() []byte {
	return r.raw
}

// Decode unmarshals the value at path into v. A missing path leaves v untouched.
func (r *Response) Decode(path string, v any) error {
	res := r.value.Get(path)
	if !res.Exists() {
		return nil
	}
	if err := json.UnmarshalFromString(res.Raw, v); err != nil {
		return ErrMalformedResponse.MsgErr("unable to decode "+path, err)
	}
	return nil
}

func (r *Response) serviceError() error {
	if r.Status() != "error" {
		return nil
	}
	return &ServiceError{Message: r.Message()}
}
