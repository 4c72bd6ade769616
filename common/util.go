package common

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// RunParallel takes multiple functions that each return an error,
// runs them in parallel using goroutines, then aggregates any
// errors using errors.Join (Go 1.20+).
func RunParallel(funcs ...func() error) (error, int) {
	var wg sync.WaitGroup
	errs := make(chan error, len(funcs)) // buffered channel

	for _, fn := range funcs {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			err := fn()
			if err != nil {
				errs <- err
			}
		}(fn)
	}

	wg.Wait()
	close(errs)

	var allErrs []error
	for err := range errs {
		allErrs = append(allErrs, err)
	}

	return errors.Join(allErrs...), len(allErrs)
}

var addressPattern = regexp.MustCompile("0x[0-9a-fA-F]{40}")

// IsRealAddress returns true if str is a full hex ethereum address.
func IsRealAddress(str string) bool {
	return len(str) == 42 && addressPattern.MatchString(str)
}

// ShortenAddress renders an address in the compact 0x1234...abcd form used
// everywhere an address appears next to other data.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return fmt.Sprintf("%s...%s", address[:6], address[len(address)-4:])
}
