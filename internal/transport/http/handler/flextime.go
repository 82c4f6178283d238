package handler

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// 只有时刻时落在这一天
var clockDay = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

var flexLayouts = []string{time.RFC3339Nano, time.DateOnly, time.TimeOnly, "15:04"}

// flexTime 商品可租日期/时段：RFC3339、YYYY-MM-DD，或 HH:MM / HH:MM:SS（存为 1970-01-01 的该时刻，UTC）
type flexTime struct{ time.Time }

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: reflect.TypeOf(time.Time{})}
	}
	s = strings.TrimSpace(s)
	for _, layout := range flexLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == time.TimeOnly || layout == "15:04" {
			t = clockDay.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
		f.Time = t
		return nil
	}
	return &json.UnmarshalTypeError{Value: "string " + s, Type: reflect.TypeOf(time.Time{})}
}

func (f *flexTime) ptr() *time.Time {
	if f == nil {
		return nil
	}
	t := f.Time
	return &t
}
