package shared

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreaker 熔断器，用于保护下游对等端（PeerClient 的重连目标等）
type CircuitBreaker struct {
	mu            sync.RWMutex
	state         State
	failureCount  int
	successCount  int
	lastFailTime  time.Time
	lastStateTime time.Time
	tripCount     int64

	threshold   int
	timeout     time.Duration
	halfOpenMax int

	onStateChange func(from, to State)
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CircuitBreaker{
		state:         StateClosed,
		threshold:     threshold,
		timeout:       timeout,
		halfOpenMax:   5,
		lastStateTime: time.Now(),
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Call 执行函数，受熔断器保护
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := fn()
	cb.afterCall(err)

	return err
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.lastFailTime) > cb.timeout {
			cb.transitionTo(StateHalfOpen)
			cb.failureCount = 0
			cb.successCount = 0
			return nil
		}
		return ErrCircuitOpen

	case StateHalfOpen:
		if cb.successCount+cb.failureCount >= cb.halfOpenMax {
			return ErrTooManyRequests
		}
		return nil

	default:
		return ErrCircuitOpen
	}
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailTime = time.Now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.threshold {
			cb.transitionTo(StateOpen)
			cb.tripCount++
		}

	case StateHalfOpen:
		cb.transitionTo(StateOpen)
		cb.tripCount++
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.successCount++

	switch cb.state {
	case StateHalfOpen:
		if cb.successCount >= cb.halfOpenMax/2 {
			cb.transitionTo(StateClosed)
			cb.failureCount = 0
			cb.successCount = 0
		}

	case StateClosed:
		if cb.successCount%100 == 0 {
			cb.failureCount = 0
		}
	}
}

func (cb *CircuitBreaker) transitionTo(newState State) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState
	cb.lastStateTime = time.Now()

	if cb.onStateChange != nil {
		go cb.onStateChange(oldState, newState)
	}
}

// State 获取当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Stats 获取统计信息
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return CircuitBreakerStats{
		State:             cb.state.String(),
		FailureCount:      cb.failureCount,
		SuccessCount:      cb.successCount,
		TripCount:         cb.tripCount,
		LastStateChange:   cb.lastStateTime,
		TimeSinceLastFail: time.Since(cb.lastFailTime),
	}
}

// SetStateChangeCallback 设置状态变化回调
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Reset 重置熔断器（用于测试或手动恢复）
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionTo(StateClosed)
	cb.failureCount = 0
	cb.successCount = 0
}

// CircuitBreakerStats 熔断器统计信息
type CircuitBreakerStats struct {
	State             string        `json:"state"`
	FailureCount      int           `json:"failure_count"`
	SuccessCount      int           `json:"success_count"`
	TripCount         int64         `json:"trip_count"`
	LastStateChange   time.Time     `json:"last_state_change"`
	TimeSinceLastFail time.Duration `json:"time_since_last_fail"`
}
