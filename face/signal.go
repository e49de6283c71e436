/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

// Signal delivers values of type T to every connected handler, in connection order.
type Signal[T any] struct {
	nextID   uint64
	handlers []signalHandler[T]
}

type signalHandler[T any] struct {
	id      uint64
	handler func(T)
}

// Connection is returned by Signal.Connect and disconnects the handler when no longer needed.
type Connection struct {
	disconnect func()
}

// Connect subscribes handler to the signal.
func (s *Signal[T]) Connect(handler func(T)) *Connection {
	id := s.nextID
	s.nextID++
	s.handlers = append(s.handlers, signalHandler[T]{id: id, handler: handler})
	return &Connection{disconnect: func() {
		for i, h := range s.handlers {
			if h.id == id {
				// Copy so that an Emit in progress keeps iterating its own slice
				handlers := make([]signalHandler[T], 0, len(s.handlers)-1)
				handlers = append(handlers, s.handlers[:i]...)
				s.handlers = append(handlers, s.handlers[i+1:]...)
				return
			}
		}
	}}
}

// Emit invokes every handler connected at the time of the call.
func (s *Signal[T]) Emit(value T) {
	for _, h := range s.handlers {
		h.handler(value)
	}
}

// NumHandlers returns the number of connected handlers.
func (s *Signal[T]) NumHandlers() int {
	return len(s.handlers)
}

// Disconnect unsubscribes the handler. Calling it more than once has no effect.
func (c *Connection) Disconnect() {
	if c == nil || c.disconnect == nil {
		return
	}
	c.disconnect()
	c.disconnect = nil
}
