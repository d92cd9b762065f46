package logic

import (
	"fmt"
	"strings"
	"time"
)

// 窗口长度
const (
	daySeconds  = 24 * 60 * 60
	weekSeconds = 7 * daySeconds
)

// parseWindowStart 解析窗口起始时间。接受 "2006-01-02" 或RFC3339，
// 不带时间部分时按UTC零点处理。所有窗口标识在这里统一归一化为unix时间戳。
func parseWindowStart(value string) (int64, string, error) {
	if value == "" {
		return 0, "", fmt.Errorf("%w: window start is required", ErrInvalidInput)
	}

	var t time.Time
	var err error
	if strings.Contains(value, "T") {
		t, err = time.Parse(time.RFC3339, value)
	} else {
		t, err = time.Parse("2006-01-02", value)
	}
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid window start %q", ErrInvalidInput, value)
	}

	t = t.UTC()
	return t.Unix(), t.Format("2006-01-02"), nil
}

// ParseDayWindow 解析天窗口，返回 [start, end) 的unix边界和可读标签
func ParseDayWindow(dayStart string) (int64, int64, string, error) {
	start, label, err := parseWindowStart(dayStart)
	if err != nil {
		return 0, 0, "", err
	}
	return start, start + daySeconds, label, nil
}

// ParseWeekWindow 解析周窗口
func ParseWeekWindow(weekStart string) (int64, int64, string, error) {
	start, label, err := parseWindowStart(weekStart)
	if err != nil {
		return 0, 0, "", err
	}
	return start, start + weekSeconds, label, nil
}
