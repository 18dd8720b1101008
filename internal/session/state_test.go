package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestResolve(t *testing.T) {
	plain := &Data{UserID: uuid.New()}
	pendingTOTP := &Data{UserID: uuid.New(), NeedsTOTP: true}
	doneTOTP := &Data{UserID: uuid.New(), NeedsTOTP: true, TwoFADone: true}

	tests := []struct {
		name string
		data *Data
		err  error
		want Status
	}{
		{"store error is loading", nil, errors.New("valkey down"), StatusLoading},
		{"no session", nil, nil, StatusUnauthenticated},
		{"password only", plain, nil, StatusAuthenticated},
		{"awaiting totp", pendingTOTP, nil, StatusUnauthenticated},
		{"totp complete", doneTOTP, nil, StatusAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.data, tt.err)
			if got.Status != tt.want {
				t.Errorf("status: got %s, want %s", got.Status, tt.want)
			}
		})
	}
}

func TestFromContextDefaultsToLoading(t *testing.T) {
	if got := FromContext(context.Background()); got.Status != StatusLoading {
		t.Errorf("got %s, want loading", got.Status)
	}

	ctx := WithState(context.Background(), State{Status: StatusUnauthenticated})
	if got := FromContext(ctx); got.Status != StatusUnauthenticated {
		t.Errorf("got %s, want unauthenticated", got.Status)
	}
}
