package eventbus

import (
	"github.com/bluetuith-org/bluectl/api/bluetooth"
)

// EventID identifies a kind of event carrying data of type T.
type EventID[T any] struct {
	id   uint
	name string
}

// Value returns the numeric topic of the event.
func (e EventID[T]) Value() uint {
	return e.id
}

// String returns the name of the event.
func (e EventID[T]) String() string {
	return e.name
}

// ScanStartedEvent is published when a scan session begins.
type ScanStartedEvent struct {
	Duration string `json:"duration"`
}

// DeviceFoundEvent is published the first time a device is seen during a scan session.
type DeviceFoundEvent struct {
	Device bluetooth.DeviceEntry `json:"device"`
}

// PairingEvent is published after every pairing attempt.
type PairingEvent struct {
	Address    bluetooth.MacAddress `json:"address"`
	Attempt    int                  `json:"attempt"`
	Successful bool                 `json:"successful"`
}

// ProfileSavedEvent is published when a profile has been written to disk.
type ProfileSavedEvent struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

var (
	ScanStarted  = EventID[ScanStartedEvent]{1, "scan-started"}
	DeviceFound  = EventID[DeviceFoundEvent]{2, "device-found"}
	PairAttempt  = EventID[PairingEvent]{3, "pair-attempt"}
	ProfileSaved = EventID[ProfileSavedEvent]{4, "profile-saved"}
)

// SubscriberID holds the raw channel of a subscription.
type SubscriberID struct {
	C      chan any
	active bool
	unsub  func()
}

// Subscription delivers the events of one EventID.
type Subscription[T any] struct {
	id SubscriberID
}

func newSubscription[T any](id SubscriberID) *Subscription[T] {
	return &Subscription[T]{id: id}
}

// Receive returns a channel of typed events. The channel is closed once the
// subscription is cancelled.
func (s *Subscription[T]) Receive() <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		for ev := range s.id.C {
			if data, ok := ev.(T); ok {
				out <- data
			}
		}
	}()

	return out
}

// Unsubscribe cancels the subscription.
func (s *Subscription[T]) Unsubscribe() {
	if !s.id.active || s.id.unsub == nil {
		return
	}

	s.id.active = false
	s.id.unsub()
}
