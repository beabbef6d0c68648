// Package formparams encodes option structs into the bracketed parameter
// convention of the Megaplan API: Model[Name]=x, Model[Executors][]=1,
// Address[City]=y, Model[Attaches][0][Name]=z.
package formparams

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Encode converts v, a struct tagged with mapstructure names, into url values
// whose keys are nested under prefix. An empty prefix puts the fields at the
// top level. Fields tagged omitempty and left at their zero value are skipped.
func Encode(prefix string, v any) (url.Values, error) {
	values := url.Values{}
	if v == nil {
		return values, nil
	}
	m, err := toMap(v)
	if err != nil {
		return nil, err
	}
	if err := encodeMap(values, prefix, m); err != nil {
		return nil, err
	}
	return values, nil
}

// Merge copies every value of src into dst, keeping the order of repeated keys.
func Merge(dst url.Values, src ...url.Values) url.Values {
	if dst == nil {
		dst = url.Values{}
	}
	for _, s := range src {
		for k, vs := range s {
			dst[k] = append(dst[k], vs...)
		}
	}
	return dst
}

// EncodeBody renders values as the urlencoded request body. Keys are sorted so
// the body, and therefore its MD5, is stable for the same values.
func EncodeBody(values url.Values) string {
	return values.Encode()
}

// Key builds a bracketed key: Key("Model", "Name") is "Model[Name]".
func Key(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "[" + field + "]"
}

// ListKey is the key under which an array field is repeated.
func ListKey(prefix, field string) string {
	return Key(prefix, field) + "[]"
}

// ListValues reads back the elements of an array field in their original order.
func ListValues(values url.Values, prefix, field string) []string {
	return values[ListKey(prefix, field)]
}

// Decode parses a query string or form body back into values.
func Decode(body string) (url.Values, error) {
	return url.ParseQuery(body)
}

func toMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	var m map[string]any
	if err := mapstructure.Decode(v, &m); err != nil {
		return nil, fmt.Errorf("unable to convert %T to parameters: %w", v, err)
	}
	return m, nil
}

func encodeMap(values url.Values, prefix string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := encodeValue(values, Key(prefix, k), m[k]); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(values url.Values, key string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		values.Add(key, val)
	case bool:
		values.Add(key, boolString(val))
	case int:
		values.Add(key, strconv.Itoa(val))
	case int64:
		values.Add(key, strconv.FormatInt(val, 10))
	case []int64:
		for _, n := range val {
			values.Add(key+"[]", strconv.FormatInt(n, 10))
		}
	case []string:
		for _, s := range val {
			values.Add(key+"[]", s)
		}
	case map[string]any:
		return encodeMap(values, key, val)
	default:
		return encodeReflect(values, key, reflect.ValueOf(v))
	}
	return nil
}

// encodeReflect handles the shapes mapstructure leaves untouched: pointers,
// other integer kinds and slices of structs.
func encodeReflect(values url.Values, key string, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return encodeValue(values, key, rv.Elem().Interface())
	case reflect.Int8, reflect.Int16, reflect.Int32:
		values.Add(key, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		values.Add(key, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		values.Add(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	case reflect.String:
		values.Add(key, rv.String())
	case reflect.Struct:
		m, err := toMap(rv.Interface())
		if err != nil {
			return err
		}
		return encodeMap(values, key, m)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if isScalar(elem) {
				if err := encodeValue(values, key+"[]", elem.Interface()); err != nil {
					return err
				}
				continue
			}
			if err := encodeValue(values, key+"["+strconv.Itoa(i)+"]", elem.Interface()); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported parameter type %s for %s", rv.Type(), key)
	}
	return nil
}

func isScalar(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Ptr, reflect.Interface:
		return false
	default:
		return true
	}
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Int64 is a small helper for building top-level parameters such as Id.
func Int64(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Bool renders a flag the way the service expects it.
func Bool(b bool) string {
	return boolString(b)
}

// QueryString renders ordered key/value pairs as a query string, keeping the
// given order. Values are query-escaped, keys are taken verbatim.
func QueryString(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(pairs[i])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return b.String()
}
