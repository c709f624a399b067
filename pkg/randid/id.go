// Package randid generates short random identifiers used to tag
// individual runs, such as import operations and their log files.
package randid

import "math/rand/v2"

// Generate returns a random lowercase alphanumeric ID of the given length.
func Generate(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))]
	}
	return string(b)
}
