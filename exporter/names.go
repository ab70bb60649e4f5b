package exporter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// A NameAllocator generates shader node names that are unique across
// exports. It is used for materials that do not define a node graph.
type NameAllocator interface {
	Allocate(prefix string) string
}

// UUIDNames allocates names from random UUIDs.
type UUIDNames struct{}

// Allocate returns prefix followed by the dash-less hex form of a new UUID.
func (UUIDNames) Allocate(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// SequentialNames allocates names from a monotonically increasing counter.
// Names are unique per allocator only: a fresh allocator restarts at 1, so
// output is reproducible across runs but not unique across exports.
type SequentialNames struct {
	mu   sync.Mutex
	next int
}

func (s *SequentialNames) Allocate(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	if prefix == "" {
		return fmt.Sprintf("%d", s.next)
	}
	return fmt.Sprintf("%s_%d", prefix, s.next)
}
