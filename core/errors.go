/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "fmt"

// InvariantError is raised (as a panic value) when an internal invariant is violated.
// These indicate a bug in configuration or in an earlier pipeline stage and are never recovered from
// inside the forwarder.
type InvariantError struct {
	Module  string
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violated in " + e.Module + ": " + e.Message
}

// Assert aborts the current operation if cond does not hold.
// The violation is logged at ERROR before panicking with an *InvariantError.
func Assert(cond bool, module interface{}, components ...interface{}) {
	if cond {
		return
	}
	message := joinComponents(components...)
	LogError(module, "Invariant violated: ", message)
	panic(&InvariantError{Module: fmt.Sprintf("%v", module), Message: message})
}
