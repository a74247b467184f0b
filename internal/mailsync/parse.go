package mailsync

import (
	"regexp"
	"strconv"
)

var newMessagesPattern = regexp.MustCompile(`pulled (\d+) new message\(s\)`)

// ParseNewMessages extracts N from the first "pulled N new message(s)" in
// the sync tool's output. It reports false when there is no match or N
// does not fit in an int.
func ParseNewMessages(stdout string) (int, bool) {
	m := newMessagesPattern.FindStringSubmatch(stdout)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
