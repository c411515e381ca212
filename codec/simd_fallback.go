//go:build !amd64

package codec

// fastInLetterRange on non-amd64 platforms is the plain SWAR range check;
// there's no wider stride to dispatch to.
func fastInLetterRange(data []byte, lo, hi byte) bool {
	return inLetterRange(data, lo, hi)
}
