// Package ticket extracts Jira ticket identifiers from commit messages.
package ticket

import (
	"regexp"
	"sort"
	"strings"
)

// ticketRe matches ticket identifiers like PROJECT-123, case-insensitively.
// A candidate counts only when no word character precedes the letters and
// no word character follows the digits.
var ticketRe = regexp.MustCompile(`(?i)\b([a-z]+)-(\d+)\b`)

// Extract returns the deduplicated, uppercased ticket keys found in the
// given commit messages, sorted lexicographically. Prefixes listed in the
// denylist are dropped; the comparison is case-insensitive.
func Extract(messages []string, denylist []string) []string {
	denied := make(map[string]struct{}, len(denylist))
	for _, d := range denylist {
		denied[strings.ToUpper(d)] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, message := range messages {
		for _, match := range ticketRe.FindAllStringSubmatch(message, -1) {
			prefix := strings.ToUpper(match[1])
			if _, ok := denied[prefix]; ok {
				continue
			}
			seen[prefix+"-"+match[2]] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
