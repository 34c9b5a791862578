// Package mouse maps terminal mouse messages to pointer events on screen
// regions.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/event"
)

// Rect is a screen rectangle in cells. The right and bottom edges are
// exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions for hit testing. Later regions sit on top.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add appends a region.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect appends a region from raw coordinates.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: hgt}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns a copy of the regions in insertion order.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// Router delivers left-button presses and releases as pointer events to the
// target registered for the region under the pointer. The release always
// goes to the region that received the press, even if the pointer moved
// off it, matching implicit pointer capture on touch screens.
type Router struct {
	HitMap *HitMap

	targets   map[string]*event.Target
	pressed   *event.Target
	pressedID string
}

// NewRouter creates a router with an empty hit map.
func NewRouter() *Router {
	return &Router{
		HitMap:  NewHitMap(),
		targets: make(map[string]*event.Target),
	}
}

// Bind associates a region ID with a target.
func (r *Router) Bind(regionID string, target *event.Target) {
	r.targets[regionID] = target
}

// Pressed reports whether a press is awaiting its release.
func (r *Router) Pressed() bool {
	return r.pressed != nil
}

// PressedID returns the region holding the current press, or "".
func (r *Router) PressedID() string {
	return r.pressedID
}

// HandleMouse routes msg and reports whether it was delivered.
func (r *Router) HandleMouse(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		region := r.HitMap.Test(msg.X, msg.Y)
		if region == nil {
			return false
		}
		target, ok := r.targets[region.ID]
		if !ok {
			return false
		}
		r.pressed = target
		r.pressedID = region.ID
		target.Dispatch(&event.Event{Type: event.PointerDown})
		return true

	case tea.MouseActionRelease:
		target := r.pressed
		if target == nil {
			return false
		}
		r.pressed = nil
		r.pressedID = ""
		target.Dispatch(&event.Event{Type: event.PointerUp})
		return true
	}
	return false
}

// Cancel abandons a pending press. The target gets pointercancel instead
// of pointerup, so nothing that acts on a release fires.
func (r *Router) Cancel() {
	if r.pressed == nil {
		return
	}
	target := r.pressed
	r.pressed = nil
	r.pressedID = ""
	target.Dispatch(&event.Event{Type: event.PointerCancel})
}
