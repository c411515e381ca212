package host

import "github.com/klauspost/compress/zstd"

// ZstdStorage implements Storage for columns stored TOAST-style: a value
// may have been transparently compressed by the host database before
// being written out-of-line, and must be expanded to a contiguous packed
// form before the codec can decode it (spec.md §4.4, "a common source of
// crashes if omitted"). Values that were never compressed (most rows,
// since TOAST only compresses values above a size threshold) are detected
// by the missing zstd frame magic and passed through unchanged.
type ZstdStorage struct {
	decoder *zstd.Decoder
}

// NewZstdStorage builds a ZstdStorage with a shared decoder. The decoder
// is safe for concurrent use by multiple worker goroutines (see
// analyzer.Worker), matching the shared, reusable decoder pattern zstd's
// own docs recommend over constructing one per call.
func NewZstdStorage() (*ZstdStorage, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &ZstdStorage{decoder: dec}, nil
}

// Close releases the decoder's background resources.
func (s *ZstdStorage) Close() {
	s.decoder.Close()
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func (s *ZstdStorage) Expand(value []byte) ([]byte, error) {
	if len(value) < 4 || !hasPrefix(value, zstdMagic) {
		return value, nil
	}
	return s.decoder.DecodeAll(value, nil)
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i := range prefix {
		if data[i] != prefix[i] {
			return false
		}
	}
	return true
}
