// Package env reads configuration from the environment. Every knob has a
// NIGMA_* key; the NIGMAJS_* spellings from the original distribution are
// still honored with a one-time deprecation warning.
package env

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

var (
	warnLogger func(format string, args ...any) = log.Printf
	warnMu     sync.Mutex
	warnedKeys sync.Map
)

// Lookup returns the value of newKey if it is set. When only the legacy
// oldKey is present its value is returned instead and a deprecation warning
// is logged once per key.
func Lookup(newKey, oldKey string) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	if oldKey != "" {
		if v, ok := os.LookupEnv(oldKey); ok {
			logDeprecated(oldKey, newKey)
			return v, true
		}
	}
	return "", false
}

// String returns the configured value or def when neither key is set.
func String(newKey, oldKey, def string) string {
	if v, ok := Lookup(newKey, oldKey); ok {
		return v
	}
	return def
}

// Bool parses the configured value as a boolean. Unset or unparseable
// values return def.
func Bool(newKey, oldKey string, def bool) bool {
	v, ok := Lookup(newKey, oldKey)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

// Int parses the configured value as an integer. Unset or unparseable
// values return def.
func Int(newKey, oldKey string, def int) int {
	v, ok := Lookup(newKey, oldKey)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

// Duration parses the configured value with time.ParseDuration. Unset or
// unparseable values return def.
func Duration(newKey, oldKey string, def time.Duration) time.Duration {
	v, ok := Lookup(newKey, oldKey)
	if !ok {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}

func logDeprecated(oldKey, newKey string) {
	onceIface, _ := warnedKeys.LoadOrStore(oldKey, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		warnMu.Lock()
		logger := warnLogger
		warnMu.Unlock()
		logger("%s is deprecated; use %s", oldKey, newKey)
	})
}

// ResetWarningsForTesting clears the cached once guards so tests can verify
// warning behaviour deterministically.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the logger used for warnings. The returned
// function restores the previous logger and should be deferred in tests.
func SetWarnLoggerForTesting(fn func(format string, args ...any)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
