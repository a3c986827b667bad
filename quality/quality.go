// Package quality tracks the renditions of a stream and which one is selected.
package quality

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Auto selects renditions by measured bandwidth.
const Auto = -1

// Level is one rendition. Index addresses it in the stream session and is
// unrelated to display order.
type Level struct {
	Index   int
	Height  int
	Bitrate int
}

// Badge annotates a vertical resolution for display.
func Badge(height int) string {
	switch {
	case height >= 1080:
		return "Full HD"
	case height >= 720:
		return "HD"
	default:
		return "SD"
	}
}

// Option is one entry of the quality list.
type Option struct {
	Index int
	Label string
	Badge string
	// Recommended marks Automatic when it is the only choice.
	Recommended bool
}

// Selector applies a selection to the stream.
type Selector interface {
	SetQualityLevel(index int) error
}

type Controller struct {
	selector   Selector
	levels     []Level
	discovered bool
	active     int
	current    int
}

func New(selector Selector) *Controller {
	return &Controller{selector: selector, active: Auto, current: Auto}
}

// Discover records the levels of the session. Only the first call has an
// effect; it reports whether the levels were taken. Entries without a
// positive height or with a repeated index are dropped.
func (c *Controller) Discover(levels []Level) bool {
	if c.discovered {
		return false
	}
	c.discovered = true

	valid := lo.Filter(levels, func(l Level, _ int) bool {
		return l.Index >= 0 && l.Height > 0 && l.Bitrate >= 0
	})
	valid = lo.UniqBy(valid, func(l Level) int { return l.Index })

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Height != valid[j].Height {
			return valid[i].Height > valid[j].Height
		}
		return valid[i].Bitrate > valid[j].Bitrate
	})
	c.levels = valid
	return true
}

// Levels returns the levels sorted by height, highest first.
func (c *Controller) Levels() []Level {
	return append([]Level(nil), c.levels...)
}

// AutoOnly reports whether Automatic is the only option.
func (c *Controller) AutoOnly() bool {
	return len(c.levels) == 0
}

// Options lists Automatic followed by every level, highest first.
func (c *Controller) Options() []Option {
	options := []Option{{Index: Auto, Label: "Automatic", Recommended: c.AutoOnly()}}
	for _, l := range c.levels {
		options = append(options, Option{
			Index: l.Index,
			Label: fmt.Sprintf("%dp", l.Height),
			Badge: Badge(l.Height),
		})
	}
	return options
}

// Select pins a level, or returns to automatic with Auto. The choice stays
// until the next Select.
func (c *Controller) Select(index int) error {
	if index != Auto {
		if _, ok := c.level(index); !ok {
			return fmt.Errorf("unknown quality level %d", index)
		}
	}

	if c.AutoOnly() && index == Auto {
		c.active = Auto
		return nil
	}

	if err := c.selector.SetQualityLevel(index); err != nil {
		return err
	}
	c.active = index
	return nil
}

// Active returns the selected index, Auto by default.
func (c *Controller) Active() int {
	return c.active
}

// ActiveLabel is "Automatic" or the pinned level's height, e.g. "720p".
func (c *Controller) ActiveLabel() string {
	if l, ok := c.level(c.active); ok {
		return fmt.Sprintf("%dp", l.Height)
	}
	return "Automatic"
}

// Observe records the level the stream switched to. It does not change the selection.
func (c *Controller) Observe(index int) {
	c.current = index
}

// PlayingLabel describes the level currently streamed, or "" when unknown.
func (c *Controller) PlayingLabel() string {
	if l, ok := c.level(c.current); ok {
		return fmt.Sprintf("%dp", l.Height)
	}
	return ""
}

func (c *Controller) level(index int) (Level, bool) {
	return lo.Find(c.levels, func(l Level) bool { return l.Index == index })
}
