/*
NAME
  growth.go

DESCRIPTION
  growth.go provides the chunk size policies of a Chain.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package buffer

import (
	"strings"

	"github.com/ausocean/readbuf/pool"
	"github.com/pkg/errors"
)

// Growth is a chunk size policy.
type Growth int

// Growth policies.
const (
	GrowthNone        Growth = iota // Every chunk has the base size.
	GrowthLinear                    // Chunk i has base*(i+1) units.
	GrowthExponential               // Chunk i has base<<i units.
)

// ErrUnknownGrowth is returned by ParseGrowth for unrecognised names.
var ErrUnknownGrowth = errors.New("unknown growth policy")

// ParseGrowth returns the policy named s: none, linear or exponential.
func ParseGrowth(s string) (Growth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return GrowthNone, nil
	case "linear":
		return GrowthLinear, nil
	case "exponential":
		return GrowthExponential, nil
	}
	return GrowthNone, errors.Wrapf(ErrUnknownGrowth, "%q", s)
}

func (g Growth) String() string {
	switch g {
	case GrowthNone:
		return "none"
	case GrowthLinear:
		return "linear"
	case GrowthExponential:
		return "exponential"
	}
	return "unknown"
}

// Size returns the size of the chunk at index given the base size, clamped
// to limit. A non-positive limit means pool.MaxLen.
func (g Growth) Size(base, index, limit int) int {
	if limit <= 0 {
		limit = pool.MaxLen
	}
	if base <= 0 {
		base = 1
	}
	if index < 0 {
		index = 0
	}
	size := base
	switch g {
	case GrowthLinear:
		if index+1 > limit/base {
			return limit
		}
		size = base * (index + 1)
	case GrowthExponential:
		for i := 0; i < index; i++ {
			if size > limit/2 {
				return limit
			}
			size *= 2
		}
	}
	if size > limit {
		return limit
	}
	return size
}
