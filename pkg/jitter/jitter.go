// Package jitter добавляет случайный разброс к интервалам повторов.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultFactor — стандартный коэффициент джиттера (50%)
const DefaultFactor = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d с джиттером в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	if factor <= 0 || d <= 0 {
		return d
	}

	randMutex.Lock()
	spread := globalRand.Float64() * factor * float64(d)
	randMutex.Unlock()

	return d + time.Duration(spread)
}

// Backoff вычисляет экспоненциальную задержку для попытки attempt (с нуля),
// ограниченную max, и добавляет джиттер.
func Backoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			delay = max
			break
		}
	}

	return Duration(delay, factor)
}
