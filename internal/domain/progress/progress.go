// Package progressはOrderの進捗・締切まわりの純粋な導出関数。
// 「now」は毎回引数で受け取り、I/Oもキャッシュも持たない。
package progress

import (
	"fmt"
	"time"
)

// FillPercentageは達成率（0〜100にクランプ）を返す。
// minimumOrdersが0以下のときは0を返す。
func FillPercentage(currentCount, minimumOrders int64) float64 {
	if minimumOrders <= 0 {
		return 0
	}
	pct := float64(currentCount) / float64(minimumOrders) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// SpotsRemainingは最低数までの残り枠。負にはならない。
func SpotsRemaining(currentCount, minimumOrders int64) int64 {
	rest := minimumOrders - currentCount
	if rest < 0 {
		return 0
	}
	return rest
}

// Remainingは締切までの残り時間。締切を過ぎていればClosed=true。
type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Closed  bool  `json:"closed"`
}

// TimeRemainingはミリ秒差のfloor除算で日・時間・分に分解する。
func TimeRemaining(closingDate time.Time, now time.Time) Remaining {
	diff := closingDate.Sub(now).Milliseconds()
	if diff <= 0 {
		return Remaining{Closed: true}
	}

	const (
		msPerMinute = int64(60 * 1000)
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)

	return Remaining{
		Days:    diff / msPerDay,
		Hours:   (diff % msPerDay) / msPerHour,
		Minutes: (diff % msPerHour) / msPerMinute,
	}
}

// FormatTimeLeftはダッシュボード表示用の残り時間文字列。
func FormatTimeLeft(closingDate time.Time, now time.Time) string {
	r := TimeRemaining(closingDate, now)
	if r.Closed {
		return "Closed"
	}
	if r.Days > 0 {
		return fmt.Sprintf("%dd %dh", r.Days, r.Hours)
	}
	if r.Hours > 0 {
		return fmt.Sprintf("%dh %dm", r.Hours, r.Minutes)
	}
	return fmt.Sprintf("%dm left", r.Minutes)
}

// IsClosingSoonは締切前かつ残りがthreshold以内のときtrue。
// すでに締め切っていればfalse。
func IsClosingSoon(closingDate time.Time, now time.Time, threshold time.Duration) bool {
	diff := closingDate.Sub(now)
	return diff > 0 && diff <= threshold
}

// IsActiveは参加を受け付けられる状態かを返す。
// 公開済み・締切前・（最大数があるなら）枠が残っている、の3条件。
func IsActive(published bool, closingDate time.Time, maximumOrders *int64, now time.Time, currentCount int64) bool {
	if !published {
		return false
	}
	if !now.Before(closingDate) {
		return false
	}
	if maximumOrders != nil && currentCount >= *maximumOrders {
		return false
	}
	return true
}
