package lastresults

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned for malformed result number lists.
var ErrInvalidNumber = errors.New("invalid result number")

// maxRange bounds a single range so a typo cannot expand to millions of entries.
const maxRange = 1000

// ParseNumbers parses result numbers such as "1", "1,3,5", "2-4" or
// "1,3-5 7" into 1-indexed numbers, dropping duplicates but keeping order.
func ParseNumbers(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no numbers given", ErrInvalidNumber)
	}

	var out []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, field := range fields {
		lo, hi, isRange := strings.Cut(field, "-")
		start, err := parsePositive(lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := parsePositive(hi)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("%w: range %q ends before it starts", ErrInvalidNumber, field)
		}
		if end-start+1 > maxRange {
			return nil, fmt.Errorf("%w: range %q is too large (max %d)", ErrInvalidNumber, field, maxRange)
		}
		for n := start; n <= end; n++ {
			add(n)
		}
	}
	return out, nil
}

// ParseNumberArgs parses command arguments such as ["1", "3-4"].
func ParseNumberArgs(args []string) ([]int, error) {
	return ParseNumbers(strings.Join(args, ","))
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidNumber, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d must be positive", ErrInvalidNumber, n)
	}
	return n, nil
}
