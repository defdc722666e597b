package service

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	defaultFilterCapacity = 100000
	defaultFilterFPRate   = 0.01
)

// CodeSource lists every short code currently stored.
type CodeSource interface {
	Codes(ctx context.Context) ([]string, error)
}

// CodeFilter remembers which short codes have been handed out. A negative answer is
// definitive; a positive one only means the code is probably taken.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter sizes a bloom filter for capacity codes at the given false positive rate.
func NewCodeFilter(capacity uint, fpRate float64) *CodeFilter {
	if capacity == 0 {
		capacity = defaultFilterCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = defaultFilterFPRate
	}
	return &CodeFilter{filter: bloom.NewWithEstimates(capacity, fpRate)}
}

// Seed loads every stored code into the filter and returns how many were added.
func (f *CodeFilter) Seed(ctx context.Context, src CodeSource) (int, error) {
	codes, err := src.Codes(ctx)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, code := range codes {
		f.filter.AddString(code)
	}
	return len(codes), nil
}

func (f *CodeFilter) Add(code string) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.filter.AddString(code)
	f.mu.Unlock()
}

func (f *CodeFilter) MayContain(code string) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}
