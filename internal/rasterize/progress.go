// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// progressPattern matches pdftoppm progress lines of the form "Page 3/12".
var progressPattern = regexp.MustCompile(`Page\s+(\d+)/(\d+)`)

// PageCount scans rasterizer diagnostic output for "Page <done>/<total>"
// progress lines and returns the largest total observed. The ok result is
// false when no progress line matched, in which case the page count cannot
// be recovered.
func PageCount(diagnostic string) (count int, ok bool) {
	scanner := bufio.NewScanner(strings.NewReader(diagnostic))
	for scanner.Scan() {
		m := progressPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		total, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if total > count {
			count = total
			ok = true
		}
	}
	return count, ok
}
