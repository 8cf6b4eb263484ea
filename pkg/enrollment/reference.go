package enrollment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const referencePrefix = "RISER"

// NewReference generates an opaque payment reference correlating one
// checkout attempt with its eventual remote record.
func NewReference() string {
	return fmt.Sprintf(
		"%s_%d_%s",
		referencePrefix,
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
	)
}
