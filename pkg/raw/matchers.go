package raw

import (
	"github.com/DATA-DOG/go-sqlmock"
)

// Query adapts a sqlmock query matcher. The matcher receives expected as
// the expected SQL and the invocation text as the actual SQL.
func Query(m sqlmock.QueryMatcher, expected string) TextMatcher {
	return func(text string) bool {
		return m.Match(expected, text) == nil
	}
}

// Regexp returns a TextMatcher accepting text matched by pattern. Runs of
// whitespace are collapsed on both sides first. An invalid pattern matches
// nothing.
func Regexp(pattern string) TextMatcher {
	return Query(sqlmock.QueryMatcherRegexp, pattern)
}

// Exact returns a TextMatcher accepting text equal to expected once runs of
// whitespace are collapsed. Case is significant.
func Exact(expected string) TextMatcher {
	return Query(sqlmock.QueryMatcherEqual, expected)
}
