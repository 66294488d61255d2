package ffmpeg

import (
	"fmt"
	"strings"
)

// VideoFilterChain builds video filter chains.
type VideoFilterChain struct {
	filters []string
}

// NewVideoFilterChain creates a new empty filter chain.
func NewVideoFilterChain() *VideoFilterChain {
	return &VideoFilterChain{}
}

// AddScale adds a downscale filter that limits the frame width to maxWidth
// while keeping the aspect ratio and an even height. Frames narrower than
// maxWidth are left untouched. A non-positive maxWidth adds nothing.
func (c *VideoFilterChain) AddScale(maxWidth int) *VideoFilterChain {
	if maxWidth > 0 {
		c.filters = append(c.filters, fmt.Sprintf("scale='min(%d,iw)':-2", maxWidth))
	}
	return c
}

// AddFilter adds a custom filter to the chain.
func (c *VideoFilterChain) AddFilter(filter string) *VideoFilterChain {
	if filter != "" {
		c.filters = append(c.filters, filter)
	}
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *VideoFilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}

// IsEmpty returns true if no filters are present.
func (c *VideoFilterChain) IsEmpty() bool {
	return len(c.filters) == 0
}
