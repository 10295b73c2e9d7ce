package api

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// Truthy interprets a response body the way the backend's clients always
// have: false, null, 0, "" and an empty body are falsy, anything else is
// truthy. A body that is not JSON counts as a non-empty string.
func Truthy(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return false
	}
	if !gjson.ValidBytes(body) {
		return true
	}

	r := gjson.ParseBytes(body)
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return true
	}
}

// textValue returns a JSON string body unquoted, or the raw body otherwise
func textValue(body []byte) string {
	body = bytes.TrimSpace(body)
	if gjson.ValidBytes(body) {
		if r := gjson.ParseBytes(body); r.Type == gjson.String {
			return r.Str
		}
	}
	return string(body)
}
