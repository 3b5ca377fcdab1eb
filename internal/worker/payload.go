package worker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// checkEvery is how many loop iterations a payload runs between ctx checks.
const checkEvery = 1024

// SumOfSquares returns Σ i² for 0 <= i < limit.
func SumOfSquares(limit int) Computation {
	return loop(limit, func(i int64) int64 { return i * i })
}

// SumOfTriples returns Σ 3i for 0 <= i < limit.
func SumOfTriples(limit int) Computation {
	return loop(limit, func(i int64) int64 { return i * 3 })
}

// XorSum returns Σ (i XOR mask) for 0 <= i < limit.
func XorSum(mask, limit int) Computation {
	m := int64(mask)
	return loop(limit, func(i int64) int64 { return i ^ m })
}

func loop(limit int, term func(int64) int64) Computation {
	return func(ctx context.Context) (int64, error) {
		var total int64
		for i := 0; i < limit; i++ {
			if i%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
			}
			total += term(int64(i))
		}
		return total, nil
	}
}

// Constant returns v without doing any work.
func Constant(v int64) Computation {
	return func(context.Context) (int64, error) { return v, nil }
}

// Failing returns a computation that always fails with err.
func Failing(err error) Computation {
	return func(context.Context) (int64, error) { return 0, err }
}

// Panicking returns a computation that panics with v.
func Panicking(v any) Computation {
	return func(context.Context) (int64, error) { panic(v) }
}

// FailAfter runs inner to completion and then fails with err, discarding
// its value. It models a computation that raises after doing its work.
func FailAfter(inner Computation, err error) Computation {
	return func(ctx context.Context) (int64, error) {
		if _, innerErr := inner(ctx); innerErr != nil {
			return 0, innerErr
		}
		return 0, err
	}
}

// Payload names accepted by LookupPayload.
const (
	PayloadSumSquares = "sum-squares"
	PayloadSumTriples = "sum-triples"
	PayloadXorSum     = "xor-sum"
)

var payloads = map[string]func(limit, mask int) Computation{
	PayloadSumSquares: func(limit, _ int) Computation { return SumOfSquares(limit) },
	PayloadSumTriples: func(limit, _ int) Computation { return SumOfTriples(limit) },
	PayloadXorSum:     func(limit, mask int) Computation { return XorSum(mask, limit) },
}

// PayloadNames returns the registered payload names in sorted order.
func PayloadNames() []string {
	names := make([]string, 0, len(payloads))
	for name := range payloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPayload builds the named payload computation.
func LookupPayload(name string, limit, mask int) (Computation, error) {
	build, ok := payloads[name]
	if !ok {
		return nil, fmt.Errorf("unknown payload %q (want one of %s)", name, strings.Join(PayloadNames(), ", "))
	}
	return build(limit, mask), nil
}

// ReferenceBatch returns the three reference tasks: staggered delays so
// completion order differs from launch order.
func ReferenceBatch(opts ...Option) []*Task {
	return []*Task{
		NewTask("one-thread", 100*time.Millisecond, SumOfSquares(2000), append([]Option{WithLabel("Task 1")}, opts...)...),
		NewTask("two-thread", 150*time.Millisecond, SumOfTriples(3000), append([]Option{WithLabel("Task 2")}, opts...)...),
		NewTask("three-thread", 50*time.Millisecond, XorSum(7, 2500), append([]Option{WithLabel("Task 3")}, opts...)...),
	}
}
