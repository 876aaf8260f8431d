package domain

import (
	"strconv"
	"strings"
)

// IDPrefix is the prefix of every user-facing task id.
const IDPrefix = "T"

// FormatID renders the id for sequence number n.
func FormatID(n int) string {
	return IDPrefix + strconv.Itoa(n)
}

// ParseID extracts the sequence number from an id such as "T7".
func ParseID(id string) (int, bool) {
	if !strings.HasPrefix(id, IDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(IDPrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NextAvailableID returns the smallest positive n such that no task uses T<n>.
func NextAvailableID(tasks []Task) int {
	used := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if n, ok := ParseID(t.ID); ok {
			used[n] = struct{}{}
		}
	}

	n := 1
	for {
		if _, taken := used[n]; !taken {
			return n
		}
		n++
	}
}
