package repository

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Documents written by earlier backends store gpa and year as numbers or
// null and timestamps as ISO strings. The types below read those shapes
// and always write strings and BSON dates.

// bsonText is a text field that also accepts numbers, booleans and null.
type bsonText string

func (s *bsonText) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*s = bsonText(rv.StringValue())
	case bsontype.Double:
		f := rv.Double()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			*s = bsonText(strconv.FormatFloat(f, 'f', 1, 64))
		} else {
			*s = bsonText(strconv.FormatFloat(f, 'f', -1, 64))
		}
	case bsontype.Int32:
		*s = bsonText(strconv.FormatInt(int64(rv.Int32()), 10))
	case bsontype.Int64:
		*s = bsonText(strconv.FormatInt(rv.Int64(), 10))
	case bsontype.Boolean:
		*s = bsonText(strconv.FormatBool(rv.Boolean()))
	case bsontype.Null, bsontype.Undefined:
		*s = ""
	default:
		return fmt.Errorf("cannot decode %s into text", t)
	}
	return nil
}

// isoLayouts are tried in order for string timestamps. The last one is
// Python's naive isoformat(), read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// bsonTime is a timestamp stored as a BSON date or an ISO-8601 string.
type bsonTime time.Time

func newBSONTime(t time.Time) *bsonTime {
	bt := bsonTime(t)
	return &bt
}

func (bt *bsonTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*bt = bsonTime(time.UnixMilli(rv.DateTime()).UTC())
	case bsontype.String:
		raw := rv.StringValue()
		for _, layout := range isoLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				*bt = bsonTime(parsed.UTC())
				return nil
			}
		}
		return fmt.Errorf("parse timestamp %q", raw)
	case bsontype.Null, bsontype.Undefined:
		*bt = bsonTime{}
	default:
		return fmt.Errorf("cannot decode %s into timestamp", t)
	}
	return nil
}

func (bt bsonTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(time.Time(bt))
}

// ptr returns the timestamp for the API, nil when unset.
func (bt *bsonTime) ptr() *time.Time {
	if bt == nil || time.Time(*bt).IsZero() {
		return nil
	}
	t := time.Time(*bt)
	return &t
}
