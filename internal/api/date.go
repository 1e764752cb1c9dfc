package api

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout は日付のみのクエリパラメータの書式です。
const DateLayout = "2006-01-02"

// ParseDate は "YYYY-MM-DD" または RFC 3339 形式の文字列をUTC時刻に変換します。
// 空文字列はゼロ値を返します（呼び出し側でデフォルトを適用します）。
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t.UTC(), nil
}

// ParseDateRange は start_date / end_date の組を解析します。
// 日付のみの end は、その日の終わり（23:59:59.999999999）まで含めます。
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if _, dateOnly := time.Parse(DateLayout, strings.TrimSpace(end)); dateOnly == nil {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	return s, e, nil
}
