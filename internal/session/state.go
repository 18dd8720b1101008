// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import "context"

// Status is the authentication status of the current request.
type Status int

const (
	// StatusLoading means the session could not be resolved yet. It is the
	// zero value, so a request that never passed through the loader is
	// treated as unknown rather than signed out.
	StatusLoading Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// State is the read-only session view passed down through the request
// context. Data is set only when Status is StatusAuthenticated, or when a
// sign-in is waiting for its TOTP code.
type State struct {
	Status Status
	Data   *Data
}

// Resolve derives the state from a session lookup result.
func Resolve(data *Data, err error) State {
	switch {
	case err != nil:
		return State{Status: StatusLoading}
	case data.SignedIn():
		return State{Status: StatusAuthenticated, Data: data}
	default:
		return State{Status: StatusUnauthenticated, Data: data}
	}
}

type stateKey struct{}

// WithState returns a context carrying st.
func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// FromContext returns the state stored by WithState, or a loading state.
func FromContext(ctx context.Context) State {
	st, _ := ctx.Value(stateKey{}).(State)
	return st
}
