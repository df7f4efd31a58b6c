package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/StoreAgent/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// AskEvent - UI asks the agent a question
type AskEvent struct {
	Question string
}

func (e AskEvent) UIEvent() {}

// ClearTranscriptEvent - UI asks core to forget the displayed transcript
type ClearTranscriptEvent struct{}

func (e ClearTranscriptEvent) UIEvent() {}

// StateUpdateEvent - Core pushes state changes to UI. Messages holds only
// what is new since the previous update unless Reset is set.
type StateUpdateEvent struct {
	Messages     []models.Message
	Reset        bool
	IsProcessing bool
	Error        error
}

func (e StateUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker stops delivery after repeated failures until resetTimeout
// has passed
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()
	// A failure while half-open trips the breaker again immediately
	if cb.failureCount >= cb.maxFailures || cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return NewEventBusWithBuffer(100)
}

func NewEventBusWithBuffer(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return send(eb, "SendToCore", eb.uiToCore, event)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return send(eb, "SendToUI", eb.coreToUI, event)
}

func send[T any](eb *EventBus, operation string, ch chan T, event T) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return ErrClosed
	}
	if eb.circuitBreaker.IsOpen() {
		eb.reportErrorLocked(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case ch <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportErrorLocked(operation, ErrChannelFull)
		return ErrChannelFull
	}
}

// reportErrorLocked expects the read lock to be held
func (eb *EventBus) reportErrorLocked(operation string, err error) {
	eb.circuitBreaker.RecordFailure()
	if eb.errorCallback != nil {
		eb.errorCallback(EventBusError{Operation: operation, Err: err, Timestamp: time.Now()})
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) CircuitState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close is safe to call more than once
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
