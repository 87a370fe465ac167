package ranking

import (
	"fmt"
	"strconv"
	"strings"
)

// ContainerID names either the unranked pool or one ranked slot.
// The zero value is the pool.
type ContainerID struct {
	slot int
}

// Pool is the unranked holding area.
var Pool = ContainerID{}

// Slot returns the container for ranked position k (1-indexed).
func Slot(k int) ContainerID {
	return ContainerID{slot: k}
}

func (c ContainerID) IsPool() bool {
	return c.slot == 0
}

// SlotIndex returns k for Slot(k) and 0 for the pool.
func (c ContainerID) SlotIndex() int {
	return c.slot
}

func (c ContainerID) String() string {
	if c.IsPool() {
		return "pool"
	}
	return "slot-" + strconv.Itoa(c.slot)
}

// ParseContainerID accepts "pool" or "slot-K" with K >= 1.
func ParseContainerID(s string) (ContainerID, error) {
	if s == "pool" {
		return Pool, nil
	}
	raw, ok := strings.CutPrefix(s, "slot-")
	if !ok {
		return Pool, fmt.Errorf("ranking: invalid container id %q", s)
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 {
		return Pool, fmt.Errorf("ranking: invalid container id %q", s)
	}
	return Slot(k), nil
}

func (c ContainerID) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ContainerID) UnmarshalText(text []byte) error {
	parsed, err := ParseContainerID(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
