// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryWithContext calls [fn] up to [maxAttempts] times, giving each attempt
// its own context derived from [parent] with [attemptTimeout].
// It stops early when [parent] is done.
func RetryWithContext[T any](
	parent context.Context,
	attemptTimeout time.Duration,
	fn func(context.Context) (T, error),
	maxAttempts int,
	retryInterval time.Duration,
) (T, error) {
	var (
		result T
		err    error
	)
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(parent, attemptTimeout)
		result, err = fn(ctx)
		cancel()
		if err == nil {
			return result, nil
		}
		if parent.Err() != nil {
			return result, errors.Join(parent.Err(), err)
		}
		if attempt+1 < maxAttempts {
			select {
			case <-parent.Done():
				return result, errors.Join(parent.Err(), err)
			case <-time.After(retryInterval):
			}
		}
	}
	return result, fmt.Errorf("maximum retry attempts %d reached: last err = %w", maxAttempts, err)
}

// Unique returns a new slice containing only the unique elements from the input slice.
func Unique[T comparable](arr []T) []T {
	visited := map[T]bool{}
	unique := []T{}
	for _, e := range arr {
		if !visited[e] {
			unique = append(unique, e)
			visited[e] = true
		}
	}
	return unique
}

// Map returns a new slice with [f] applied to every element of [input]
func Map[T, U any](input []T, f func(T) U) []U {
	output := make([]U, 0, len(input))
	for _, e := range input {
		output = append(output, f(e))
	}
	return output
}
