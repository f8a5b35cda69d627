// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import (
	"errors"
	"strconv"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Pool.Acquire and Stack.Push: every chunk of the pool is in use
// For RegisterFile.Save and SaveAll: the pool of a saved kind is exhausted
//
// ErrWouldBlock is a control flow signal, not a failure. Another
// interpreter releasing its chunks makes the operation succeed later.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    _, err := stack.Push(&frame)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if regstack.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrUnderflow is returned when popping or peeking an empty stack.
	ErrUnderflow = errors.New("regstack: register stack underflow")

	// ErrBadAddress is returned when an address does not name a live frame.
	ErrBadAddress = errors.New("regstack: address is not a live frame")

	// ErrPolicyRange reports a chunk size outside [1, ChunkAlign].
	ErrPolicyRange = errors.New("regstack: frames per chunk out of range")

	// ErrPolicyKey reports an unknown key in a policy file.
	ErrPolicyKey = errors.New("regstack: unknown policy key")
)

// PolicyError describes an invalid entry in a policy file.
type PolicyError struct {
	Key   string
	Value int
	Err   error
}

func (e *PolicyError) Error() string {
	if errors.Is(e.Err, ErrPolicyKey) {
		return e.Err.Error() + " " + e.Key
	}
	return e.Err.Error() + ": " + e.Key + " = " + strconv.Itoa(e.Value)
}

func (e *PolicyError) Unwrap() error {
	return e.Err
}

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
