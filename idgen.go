package locset

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// IDGenerator produces globally unique identifiers for localization sets and
// cloned records.
type IDGenerator interface {
	NewID() string
}

type xidGenerator struct{}

func (xidGenerator) NewID() string {
	return xid.New().String()
}

// XIDGenerator returns the default generator producing sortable xid strings.
func XIDGenerator() IDGenerator {
	return xidGenerator{}
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// UUIDGenerator returns a generator producing random UUID strings for stores
// that already key sets by UUID.
func UUIDGenerator() IDGenerator {
	return uuidGenerator{}
}
