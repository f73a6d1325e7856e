// Package seq issues year-scoped protocol numbers.
//
// The counter for a year only ever increases. Next persists the advanced
// counter before returning the number, so a crash after issuance can leave a
// gap but never a duplicate. Gaps are acceptable; duplicates are not.
package seq

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mvcampos/protocolo/internal/kv"
)

// Store is the slice of the record store the generator needs.
type Store interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Result carries an issued or previewed protocol number.
type Result struct {
	Number string `json:"protocol_number"`
	Seq    int    `json:"seq"`

	// Fallback is true when the store was unavailable and the number was
	// derived from the clock instead. Fallback numbers are best-effort only:
	// they are not guaranteed unique and are never persisted as counter state.
	Fallback bool `json:"fallback,omitempty"`
}

// Format renders a protocol number, seq zero-padded to 3 digits.
func Format(year, sequence int) string {
	return fmt.Sprintf("%d-%03d", year, sequence)
}

// Next issues the next protocol number for year and advances the counter.
// The counter write happens before the number is returned.
func Next(store Store, year int) *Result {
	last, ok := readCounter(store, year)
	if !ok {
		return fallback(year)
	}

	sequence := last + 1
	if err := store.Put(kv.SeqKey(year), strconv.Itoa(sequence)); err != nil {
		return fallback(year)
	}

	return &Result{Number: Format(year, sequence), Seq: sequence}
}

// Peek previews the number Next would issue without advancing the counter.
// Used for display at session start; the actual reservation happens on save.
func Peek(store Store, year int) *Result {
	last, ok := readCounter(store, year)
	if !ok {
		return fallback(year)
	}
	return &Result{Number: Format(year, last+1), Seq: last + 1}
}

// readCounter reads the last-issued sequence for year. An absent counter
// reads as 0. A corrupt value is treated like an unavailable store: starting
// over at 0 could reissue numbers, and the fallback path cannot.
func readCounter(store Store, year int) (int, bool) {
	value, found, err := store.Get(kv.SeqKey(year))
	if err != nil {
		return 0, false
	}
	if !found {
		return 0, true
	}
	last, err := strconv.Atoi(value)
	if err != nil || last < 0 {
		return 0, false
	}
	return last, true
}

// fallback derives a best-effort number from the last 3 digits of a monotonic
// clock reading. Callers see Fallback=true and must not assume uniqueness.
func fallback(year int) *Result {
	ms := int(time.Now().UnixMilli() % 1000)
	return &Result{Number: Format(year, ms), Seq: ms, Fallback: true}
}
