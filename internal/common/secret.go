// Package common holds small helpers shared by the client packages.
package common

// WipeByteArray zeroes b in place. Used for passwords read from the terminal
// once they have been sent. A nil slice is left alone.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// MaskSecret shortens s to its first and last two characters, for showing
// tokens in logs and status output. Short values are fully masked.
func MaskSecret(s string) string {
	if len(s) <= 6 {
		return "******"
	}
	return s[:2] + "..." + s[len(s)-2:]
}
