package receipt

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Converters implemented by store timestamp types. Firestore-style values
// expose ToDate; protobuf timestamps expose AsTime.
type (
	dateConverter interface{ ToDate() time.Time }
	timeConverter interface{ AsTime() time.Time }
)

// maxEpochMillis bounds numeric timestamps to the range a JavaScript Date
// accepts (±100,000,000 days around the epoch).
const maxEpochMillis = 8.64e15

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// coerceTime converts any timestamp-like value to a time. Values that match
// no conversion, and zero times, yield nil.
func coerceTime(v any) *time.Time {
	var (
		t  time.Time
		ok bool
	)
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		t, ok = x, true
	case *time.Time:
		if x == nil {
			return nil
		}
		t, ok = *x, true
	case dateConverter:
		t, ok = convertSafely(x.ToDate)
		if ok {
			t = t.UTC()
		}
	case timeConverter:
		t, ok = convertSafely(x.AsTime)
		if ok {
			t = t.UTC()
		}
	case map[string]any:
		t, ok = fromSeconds(x)
	case Raw:
		t, ok = fromSeconds(x)
	case string:
		t, ok = parseTime(x)
	case json.Number, float64, float32, int, int32, int64:
		var ms float64
		ms, ok = toNumber(x)
		if ok && ms != 0 && math.Abs(ms) <= maxEpochMillis {
			t = time.UnixMilli(int64(ms)).UTC()
		} else {
			ok = false
		}
	}
	if !ok || t.IsZero() {
		return nil
	}
	return &t
}

func convertSafely(f func() time.Time) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	return f(), true
}

// fromSeconds reads the {seconds, nanoseconds} map a serialized store
// timestamp turns into after a JSON round trip.
func fromSeconds(m map[string]any) (time.Time, bool) {
	secV, ok := m["seconds"]
	if !ok {
		secV, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	sec, ok := toNumber(secV)
	if !ok {
		return time.Time{}, false
	}
	var nsec float64
	if v, found := m["nanoseconds"]; found {
		nsec, _ = toNumber(v)
	} else if v, found := m["_nanoseconds"]; found {
		nsec, _ = toNumber(v)
	}
	return time.Unix(int64(sec), int64(nsec)).UTC(), true
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
