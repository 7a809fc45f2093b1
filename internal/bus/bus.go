// Package bus carries typed commands from the UI to the session controller and
// pre-rendered display lines back from the controller to the UI.
package bus

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the buffer size of both queues.
const DefaultCapacity = 100

var (
	// ErrQueueFull is returned by TrySend when the command queue has no room.
	ErrQueueFull = errors.New("command queue full")
	// ErrClosed is returned when sending on a closed command queue.
	ErrClosed = errors.New("command queue closed")
)

// Bus holds the two bounded queues. Display lines may be published by any
// number of goroutines and are delivered in the order they were accepted.
type Bus struct {
	commands chan Command
	lines    chan string

	// Senders hold mu for reading while they touch commands; CloseCommands
	// releases blocked senders through closing and then takes mu for writing.
	mu      sync.RWMutex
	closing chan struct{}
	once    sync.Once
}

// New creates a bus whose queues hold capacity items each.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		commands: make(chan Command, capacity),
		lines:    make(chan string, capacity),
		closing:  make(chan struct{}),
	}
}

// Commands is the receive side used by the controller.
func (b *Bus) Commands() <-chan Command {
	return b.commands
}

// Lines is the receive side used by the render engine.
func (b *Bus) Lines() <-chan string {
	return b.lines
}

// LineSink is the send side handed to the controller.
func (b *Bus) LineSink() chan<- string {
	return b.lines
}

// TrySend enqueues cmd without blocking.
func (b *Bus) TrySend(cmd Command) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.closing:
		return ErrClosed
	default:
	}

	select {
	case b.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Send enqueues cmd, blocking while the queue is full.
func (b *Bus) Send(ctx context.Context, cmd Command) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.closing:
		return ErrClosed
	default:
	}

	select {
	case b.commands <- cmd:
		return nil
	case <-b.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish delivers a display line, blocking while the line queue is full.
func (b *Bus) Publish(ctx context.Context, line string) error {
	select {
	case b.lines <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CloseCommands closes the command queue. The controller finishes the values
// already queued and then shuts down. Safe to call more than once.
func (b *Bus) CloseCommands() {
	b.once.Do(func() {
		close(b.closing)
		b.mu.Lock()
		close(b.commands)
		b.mu.Unlock()
	})
}
