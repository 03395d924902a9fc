package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned for a year or quarter outside the supported range.
var ErrInvalidPeriod = errors.New("invalid period")

const dateLayout = "2006-01-02"

// QuarterRange returns the fetch bounds for a calendar quarter as YYYY-MM-DD strings.
// The end bound is the first day of the quarter's last month and is exclusive.
func QuarterRange(year, quarter int) (start, end string, err error) {
	if quarter < 1 || quarter > 4 {
		return "", "", fmt.Errorf("%w: quarter %d not in 1..4", ErrInvalidPeriod, quarter)
	}
	if year < 1900 || year > 9999 {
		return "", "", fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	start = fmt.Sprintf("%04d-%02d-01", year, (quarter-1)*3+1)
	end = fmt.Sprintf("%04d-%02d-01", year, quarter*3)
	return start, end, nil
}

// QuarterBounds is QuarterRange parsed into UTC times.
func QuarterBounds(year, quarter int) (start, end time.Time, err error) {
	s, e, err := QuarterRange(year, quarter)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, _ = time.Parse(dateLayout, s)
	end, _ = time.Parse(dateLayout, e)
	return start, end, nil
}

// PreviousQuarter returns the quarter that ended most recently before t.
func PreviousQuarter(t time.Time) (year, quarter int) {
	year = t.Year()
	quarter = (int(t.Month())-1)/3 + 1
	quarter--
	if quarter == 0 {
		quarter = 4
		year--
	}
	return year, quarter
}

// QuarterLabel formats a period as "2023 Q2".
func QuarterLabel(year, quarter int) string {
	return fmt.Sprintf("%d Q%d", year, quarter)
}
