package glstore

import (
	"fmt"
	"slices"
)

// DetectEvent is a content property the renderer reports back about a
// texture the first time it is used in a way that reveals it.
type DetectEvent uint8

const (
	// Detect3D fires when a texture is first used by a 3D material.
	Detect3D DetectEvent = iota
	// DetectNormal fires when a texture is first used as a normal map.
	DetectNormal
	// DetectRoughness fires when a texture is first used as a roughness map.
	DetectRoughness
)

// String returns the event name.
func (e DetectEvent) String() string {
	switch e {
	case Detect3D:
		return "3d"
	case DetectNormal:
		return "normal"
	case DetectRoughness:
		return "roughness"
	}
	return fmt.Sprintf("DetectEvent(%d)", uint8(e))
}

// DetectListener receives detect notifications. Listeners are compared by
// identity, so use pointer types to subscribe and unsubscribe.
type DetectListener interface {
	OnTextureDetect(ev DetectEvent, tex Handle)
}

// SubscribeDetect registers l for ev on h. Subscribing the same listener
// twice has no effect.
func (s *Storage) SubscribeDetect(h Handle, ev DetectEvent, l DetectListener) error {
	t := s.getTexture(h, "SubscribeDetect")
	if t == nil {
		return fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	if l == nil {
		return fmt.Errorf("%w: nil listener", ErrInvalidOperation)
	}
	if t.listeners == nil {
		t.listeners = make(map[DetectEvent][]DetectListener)
	}
	if slices.Contains(t.listeners[ev], l) {
		return nil
	}
	t.listeners[ev] = append(t.listeners[ev], l)
	return nil
}

// UnsubscribeDetect removes l from ev on h.
func (s *Storage) UnsubscribeDetect(h Handle, ev DetectEvent, l DetectListener) {
	t := s.getTexture(h, "UnsubscribeDetect")
	if t == nil || t.listeners == nil {
		return
	}
	t.listeners[ev] = slices.DeleteFunc(t.listeners[ev], func(x DetectListener) bool { return x == l })
}

// NotifyDetect calls every listener of ev on h and returns how many were
// called. Listeners may unsubscribe while being notified.
func (s *Storage) NotifyDetect(h Handle, ev DetectEvent) int {
	t := s.getTexture(h, "NotifyDetect")
	if t == nil {
		return 0
	}
	ls := slices.Clone(t.listeners[ev])
	for _, l := range ls {
		l.OnTextureDetect(ev, h)
	}
	return len(ls)
}
