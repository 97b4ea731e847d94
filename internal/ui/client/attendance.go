package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

const (
	dateLength        = len("2006-01-02")
	timeLength        = len("15:04")
	timeSecondsLength = len("15:04:05")
)

// NormalizeAttendance prepares an attendance payload for the API.
//
// The returned record is a copy of data where:
//   - date is cut to its first 10 characters (YYYY-MM-DD), or nil when unset
//   - check_in and check_out in HH:MM:SS form are cut to HH:MM, unset values become nil
//
// Nothing is validated: values of other lengths or types are passed through unchanged.
func NormalizeAttendance(data types.Record) types.Record {
	out := make(types.Record, len(data)+3)
	maps.Copy(out, data)

	out["date"] = normalizeDate(data["date"])
	out["check_in"] = normalizeTime(data["check_in"])
	out["check_out"] = normalizeTime(data["check_out"])

	return out
}

func normalizeDate(v any) any {
	if isFalsy(v) {
		return nil
	}
	return truncate(stringValue(v), dateLength)
}

func normalizeTime(v any) any {
	if isFalsy(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	if len([]rune(s)) == timeSecondsLength {
		return truncate(s, timeLength)
	}
	return s
}

// isFalsy reports whether v counts as "not set": nil, empty string, false or numeric zero
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return t == "" || (err == nil && f == 0)
	case float64:
		return t == 0
	case float32:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case int32:
		return t == 0
	default:
		return false
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
