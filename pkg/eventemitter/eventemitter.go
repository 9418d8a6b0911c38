package eventemitter

import "sync"

// EventEmitter delivers every emitted message to its subscribers, synchronously
// and in subscription order.
type EventEmitter[T any] struct {
	mutex       sync.RWMutex
	subscribers []*Subscriber[T]
}

func (eventEmitter *EventEmitter[T]) Emit(message T) {
	eventEmitter.mutex.RLock()
	subscribers := make([]*Subscriber[T], len(eventEmitter.subscribers))
	copy(subscribers, eventEmitter.subscribers)
	eventEmitter.mutex.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.callback(message)
	}
}

func (eventEmitter *EventEmitter[T]) Subscribe(callback func(T)) *Subscriber[T] {
	if callback == nil {
		panic("Callback is not a function")
	}
	subscriber := &Subscriber[T]{callback: callback}

	eventEmitter.mutex.Lock()
	eventEmitter.subscribers = append(eventEmitter.subscribers, subscriber)
	eventEmitter.mutex.Unlock()
	return subscriber
}

func (eventEmitter *EventEmitter[T]) Unsubscribe(subscriber *Subscriber[T]) {
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	for index, current := range eventEmitter.subscribers {
		if current == subscriber {
			eventEmitter.subscribers = append(eventEmitter.subscribers[:index], eventEmitter.subscribers[index+1:]...)
			return
		}
	}
}

type Subscriber[T any] struct {
	callback func(T)
}
