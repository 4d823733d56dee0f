package version

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// TagPattern matches a lowercase "v" followed by at least two dot-separated
// numeric components, e.g. "v1.2" or "v1.2.3.4".
var TagPattern = regexp.MustCompile(`^v\d+(\.\d+)+$`)

func IsValidTag(tag string) bool {
	return TagPattern.MatchString(tag)
}

// Compare returns the signed difference of the first differing component of
// a and b, or zero if both are equal once the shorter one is padded with zero
// components. Components are never negative, so the difference cannot overflow.
func Compare(a, b string) int {
	as := components(a)
	bs := components(b)

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if x != y {
			return x - y
		}
	}
	return 0
}

func components(tag string) []int {
	parts := strings.Split(strings.TrimPrefix(tag, "v"), ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			// Out-of-range digits saturate; anything else counts as zero.
			if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(p, "-") {
				n = math.MaxInt
			} else {
				n = 0
			}
		}
		if n < 0 {
			n = 0
		}
		out[i] = n
	}
	return out
}

// Filter keeps the tags that pass IsValidTag, preserving order.
func Filter(tags []string) []string {
	var valid []string
	for _, t := range tags {
		if IsValidTag(t) {
			valid = append(valid, t)
		}
	}
	return valid
}

func SortDescending(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return Compare(tags[i], tags[j]) > 0
	})
}

// Latest returns the highest valid tag. The input slice is not modified.
func Latest(tags []string) (string, bool) {
	valid := Filter(tags)
	if len(valid) == 0 {
		return "", false
	}
	SortDescending(valid)
	return valid[0], true
}
