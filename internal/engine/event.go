package engine

// ListenerID identifies a subscription so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// EventWithArg is a multi-cast event carrying one argument.
// Listeners run synchronously, in subscription order, on the caller's goroutine.
type EventWithArg[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
}

// AddListener subscribes callback and returns an id for RemoveListener.
// A nil callback is ignored and yields id 0.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener unsubscribes id. Unknown ids are ignored.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	// Copy so listeners may unsubscribe while being invoked.
	snapshot := append([]listener[T](nil), e.listeners...)
	for _, l := range snapshot {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
