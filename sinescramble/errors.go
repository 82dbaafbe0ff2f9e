package sinescramble

import "github.com/cockroachdb/errors"

var (
	// ErrNoKeyComponents is returned when a cipher is configured with zero key components.
	ErrNoKeyComponents = errors.New("sinescramble: key must have at least one component")
	// ErrBufferTooShortForSegments is returned by Segmented mode when the buffer is shorter than
	// the number of key components (a zero-length segment is not representable).
	ErrBufferTooShortForSegments = errors.New("sinescramble: buffer length must be >= number of key components")
)
