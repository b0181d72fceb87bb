// SPDX-License-Identifier: Apache-2.0

// Package glob implements the wildcard matching used for index names and
// dotted field paths. The only metacharacter is '*', which matches any run of
// characters, including none. A '*' is not bounded by the '.' path separator,
// so `nest*` matches `nested.response`.
package glob

import "strings"

// Match reports whether name matches pattern. A pattern without wildcards
// only matches the exact name.
func Match(pattern, name string) bool {
	pIdx, nIdx := 0, 0
	starIdx, backtrackIdx := -1, 0

	for nIdx < len(name) {
		switch {
		case pIdx < len(pattern) && pattern[pIdx] == name[nIdx]:
			pIdx++
			nIdx++
		case pIdx < len(pattern) && pattern[pIdx] == '*':
			// tentatively match '*' with the empty string, remember
			// where to resume if the rest of the pattern fails
			starIdx = pIdx
			backtrackIdx = nIdx
			pIdx++
		case starIdx >= 0:
			// extend the last '*' by one more character and retry
			pIdx = starIdx + 1
			backtrackIdx++
			nIdx = backtrackIdx
		default:
			return false
		}
	}

	// trailing wildcards match the empty string
	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}

// MatchAny reports whether name matches at least one of the patterns.
func MatchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}

// HasWildcard reports whether the pattern contains a '*' metacharacter.
// Patterns without wildcards are treated as strict literals by the index
// resolution.
func HasWildcard(pattern string) bool {
	return strings.ContainsRune(pattern, '*')
}
