package relabel

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate interprets the --since/--until argument forms:
//
//	2024-06-01
//	today, yesterday
//	"3 days ago", "2 weeks ago", "1 year ago" (and d/w/y shorthands)
//
// and returns the date formatted for a Gmail after:/before: clause.
func ParseDate(arg string, today time.Time) (string, error) {
	const layout = "2006-01-02"
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(arg)))

	switch len(fields) {
	case 1:
		switch fields[0] {
		case "today":
			return today.Format(layout), nil
		case "yesterday":
			return today.AddDate(0, 0, -1).Format(layout), nil
		}
	case 3:
		if fields[2] != "ago" {
			break
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return "", fmt.Errorf("invalid date %q", arg)
		}
		switch fields[1] {
		case "d", "day", "days":
			return today.AddDate(0, 0, -n).Format(layout), nil
		case "w", "wk", "wks", "week", "weeks":
			return today.AddDate(0, 0, -7*n).Format(layout), nil
		case "y", "yr", "yrs", "year", "years":
			return today.AddDate(-n, 0, 0).Format(layout), nil
		}
	}

	d, err := time.Parse(layout, strings.TrimSpace(arg))
	if err != nil {
		return "", fmt.Errorf("invalid date %q", arg)
	}
	return d.Format(layout), nil
}
