package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Entity ID prefixes and the zero-padded width of the numeric suffix
const (
	TeamIDPrefix   = "SSPSLT"
	PlayerIDPrefix = "sspslpsl"
	idNumberWidth  = 4
)

// ErrAllocatorNotSeeded is returned when Allocate is called before
// Seed. That ordering is a programmer error; emitting IDs from an
// unseeded counter would silently collide with existing entities.
var ErrAllocatorNotSeeded = errors.New("importer: id allocator used before seeding")

// IDAllocator issues monotonically increasing entity IDs. It is scoped
// to a single job: seed it from the loaded ID list at job start and
// reset it at job end. Concurrent jobs must each use their own
// allocator instance.
type IDAllocator struct {
	prefix string
	width  int
	next   int
	seeded bool
}

// NewTeamIDAllocator creates an allocator for team IDs (SSPSLT0001, ...)
func NewTeamIDAllocator() *IDAllocator {
	return &IDAllocator{prefix: TeamIDPrefix, width: idNumberWidth}
}

// NewPlayerIDAllocator creates an allocator for player IDs (sspslpsl0001, ...)
func NewPlayerIDAllocator() *IDAllocator {
	return &IDAllocator{prefix: PlayerIDPrefix, width: idNumberWidth}
}

// Seed positions the counter after the highest numeric suffix found in
// the existing IDs. IDs with a different prefix or a non-numeric
// suffix are ignored.
func (a *IDAllocator) Seed(existing []string) {
	max := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, a.prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(a.prefix):])
		if err != nil || n <= max {
			continue
		}
		max = n
	}
	a.next = max + 1
	a.seeded = true
}

// Allocate returns the next ID. It fails fast when the allocator was
// never seeded.
func (a *IDAllocator) Allocate() (string, error) {
	if !a.seeded {
		return "", ErrAllocatorNotSeeded
	}
	id := fmt.Sprintf("%s%0*d", a.prefix, a.width, a.next)
	a.next++
	return id, nil
}

// Reset clears the allocator at job end so a stale counter can never
// leak into a later job.
func (a *IDAllocator) Reset() {
	a.next = 0
	a.seeded = false
}
