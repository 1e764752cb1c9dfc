package cache

import (
	"time"
)

// TimeUntilNext は now から次の hour 時（loc基準）までの期間を返します。
// now がちょうどその時刻の場合は24時間後を返します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の指定時刻を過ぎている場合は翌日を使用
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
