package attendance

import (
	"fmt"
	"strings"

	"chulgyeol-backend/internal/upload"
)

// Reply texts are the bot's original Korean strings; the gateway relays them
// verbatim.
const (
	emptyTodayText   = "오늘 출결 기록이 없습니다."
	emptyMonthlyText = "이번 달 출결 기록이 없습니다."
	emptyMyText      = "출결 기록이 없습니다."
)

func formatStudentLine(grade, class, number int, name string) string {
	return fmt.Sprintf("%d학년 %d반 %d번 %s", grade, class, number, name)
}

// BuildTodayView renders the daily roster, one line per record.
func BuildTodayView(rows []TodayRow) string {
	if len(rows) == 0 {
		return emptyTodayText
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s - %s (%s)",
			formatStudentLine(r.Grade, r.Class, r.Number, r.Name), r.Status.Label(), r.Reason))
	}
	return "📋 오늘 출결 현황\n\n" + strings.Join(lines, "\n")
}

// BuildMonthlyView renders the per-student monthly tallies.
func BuildMonthlyView(rows []StatsRow) string {
	if len(rows) == 0 {
		return emptyMonthlyText
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s → 지각: %d, 결석: %d",
			formatStudentLine(r.Grade, r.Class, r.Number, r.Name), r.Late, r.Absent))
	}
	return "📆 이번 달 출결 통계\n\n" + strings.Join(lines, "\n")
}

// BuildMyView renders the caller's own history. Relative file URLs are
// qualified with the public base URL; absolute ones pass through.
func BuildMyView(records []Record, filter *Status, baseURL string) string {
	if len(records) == 0 {
		return emptyMyText
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		line := fmt.Sprintf("📅 %s - %s (%s)", r.Date, r.Status.Label(), r.Reason)
		if r.FileURL != nil && *r.FileURL != "" {
			line += "\n📎 첨부파일:\n" + upload.ResolveURL(baseURL, *r.FileURL)
		}
		lines = append(lines, line)
	}
	header := fmt.Sprintf("🗂️ %d건의 출결 기록 (%s)", len(records), FilterLabel(filter))
	return header + "\n\n" + strings.Join(lines, "\n")
}
