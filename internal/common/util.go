package common

// WipeByteArray overwrites b with zeros. It is used to scrub passwords read
// from the terminal once they are no longer needed. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
