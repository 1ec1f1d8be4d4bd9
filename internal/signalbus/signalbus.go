// Package signalbus issues notifications that named events have occurred.
// The query cache uses it to announce that a resource's entries went stale.
package signalbus

import (
	"sync"
)

type SignalBus interface {
	// Notify will notify all the subscriptions created for the given named signal.
	Notify(name string)
	// NotifyAll will notify all the subscriptions
	NotifyAll()
	// Subscribe creates a subscription the named signal
	Subscribe(name string) *Subscription
}

var _ SignalBus = &signalBus{} // type check the interface is implemented.

type signalBus struct {
	sync.RWMutex
	signals map[string][]*Subscription
}

// NewSignalBus creates a new in memory SignalBus
func NewSignalBus() SignalBus {
	return &signalBus{
		signals: make(map[string][]*Subscription),
	}
}

func (sb *signalBus) Notify(name string) {
	sb.RLock()
	subs := sb.signals[name]
	sb.RUnlock()
	signal(subs)
}

func (sb *signalBus) NotifyAll() {
	var subs []*Subscription
	sb.RLock()
	for _, s := range sb.signals {
		subs = append(subs, s...)
	}
	sb.RUnlock()
	signal(subs)
}

func signal(subs []*Subscription) {
	for _, sub := range subs {
		select {
		case sub.c <- struct{}{}:
		default: // a signal is already pending
		}
	}
}

func (sb *signalBus) Subscribe(name string) *Subscription {
	sub := &Subscription{
		sb:   sb,
		name: name,
		c:    make(chan struct{}, 1),
	}

	sb.Lock()
	sb.signals[name] = append(sb.signals[name], sub)
	sb.Unlock()
	return sub
}

func (sb *signalBus) close(sub *Subscription) {
	sb.Lock()
	defer sb.Unlock()
	subs := sb.signals[sub.name]
	for i, s := range subs {
		if s != sub {
			continue
		}
		lastIdx := len(subs) - 1
		subs[i] = subs[lastIdx]
		subs = subs[:lastIdx]
		break
	}
	if len(subs) == 0 {
		delete(sb.signals, sub.name)
	} else {
		sb.signals[sub.name] = subs
	}
}

type Subscription struct {
	sb        *signalBus
	name      string
	closeOnce sync.Once
	c         chan struct{}
}

// Signal returns a channel that receives a message when the subscription is notified.
//
//	sub := cache.Subscribe("seats")
//	defer sub.Close()
//	for {
//		select {
//		case <-sub.Signal():
//			// seats went stale, refetch
//		case <-ctx.Done():
//			return
//		}
//	}
func (sub *Subscription) Signal() <-chan struct{} {
	return sub.c
}

// IsSignaled checks to see if the subscription has been notified.
func (sub *Subscription) IsSignaled() bool {
	select {
	case <-sub.c:
		return true
	default:
		return false
	}
}

// Close is used to close out the subscription.
func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() {
		sub.sb.close(sub)
	})
}
