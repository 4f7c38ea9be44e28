package journal

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Run ids share one entropy source so that validations journaled in the
// same millisecond keep their recording order in the validations table.
var (
	idMu     sync.Mutex
	runIDSrc io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runIDSrc = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewRunID returns the run_id for a validation recorded at t. Run ids sort
// by recording time.
func NewRunID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), runIDSrc)
	if err != nil {
		// the monotonic source overflowed within one millisecond
		return ulid.Make().String()
	}
	return id.String()
}
