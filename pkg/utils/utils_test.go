package utils

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(now, now.Add(2*time.Hour)))
	assert.Equal(t, 14, DaysUntil(now, now.AddDate(0, 0, 14)))
	assert.Equal(t, 0, DaysUntil(now, now.Add(-2*time.Hour)))
}

func TestRecover(t *testing.T) {
	err := Recover(func() error { panic("boom") })
	assert.ErrorContains(t, err, "boom")

	sentinel := errors.New("plain")
	assert.ErrorIs(t, Recover(func() error { return sentinel }), sentinel)
}

func TestGoSafe_ReportsPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	var got error
	GoSafe(func() { panic("worker died") }, func(err error) {
		got = err
		wg.Done()
	})
	wg.Wait()
	assert.ErrorContains(t, got, "worker died")
}

func TestPointers(t *testing.T) {
	p := ToPointer(5)
	assert.Equal(t, 5, Deref(p))
	var nilPtr *string
	assert.Equal(t, "", Deref(nilPtr))
}
