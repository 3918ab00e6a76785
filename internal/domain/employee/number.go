package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Department names map to a single-digit code used in employee numbers.
// Anything unmapped (including a blank department) falls back to "1".
var departmentCodes = map[string]string{
	"IT":               "1",
	"HR":               "2",
	"Finance":          "3",
	"Marketing":        "4",
	"Sales":            "5",
	"Operations":       "6",
	"Customer Support": "7",
}

const defaultDepartmentCode = "1"

func DepartmentCode(department string) string {
	if code, ok := departmentCodes[strings.TrimSpace(department)]; ok {
		return code
	}
	return defaultDepartmentCode
}

// NumberPrefix is the (year, department) bucket an employee number is
// allocated in: two-digit year followed by the department code.
func NumberPrefix(department string, at time.Time) string {
	return fmt.Sprintf("%02d%s", at.Year()%100, DepartmentCode(department))
}

// NextNumber computes the next free number for a prefix from the numbers
// already allocated in it. Numbers whose suffix does not parse as an integer
// are ignored rather than restarting the sequence at 0001, which would
// collide with the next malformed fallback.
func NextNumber(prefix string, existing []string) (string, error) {
	maxSeq := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		seq, err := strconv.Atoi(number[len(prefix):])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	next := maxSeq + 1
	if next > 9999 {
		return "", fmt.Errorf("employee number sequence exhausted for prefix %s", prefix)
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}
