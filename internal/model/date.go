package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout はバックエンドとの日付フィールドのワイヤフォーマット。
const dateLayout = "2006-01-02"

// Date は "YYYY-MM-DD" 形式で直列化されるカレンダー日付を表す。
// 時刻・タイムゾーン成分は持たず、ラウンドトリップで同一の日付文字列に戻る。
type Date struct {
	time.Time
}

// NewDate は年月日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf はtime.Timeの日付成分のみを持つDateを生成する。
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// MarshalJSON は"YYYY-MM-DD"形式のJSON文字列として直列化する。
// ゼロ値はnullとして直列化する。
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON は"YYYY-MM-DD"形式のJSON文字列をパースする。
// nullと空文字列はゼロ値として扱う。
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// String は"YYYY-MM-DD"形式の文字列を返す。ゼロ値は空文字列。
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Before は他のDateより前の日付かどうかを返す。
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After は他のDateより後の日付かどうかを返す。
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}
