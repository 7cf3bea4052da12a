package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
)

func signedInSession(t *testing.T, email string) *Session {
	s := NewSession(newFakeIdentity(map[string]string{email: "pw"}), nil)
	_, err := s.SignIn(context.Background(), email, "pw")
	require.NoError(t, err)
	return s
}

func TestRoleResolver_ResolvingIsNeverARole(t *testing.T) {
	s := signedInSession(t, "v@example.com")
	release := make(chan struct{})
	entered := make(chan struct{})
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		close(entered)
		<-release
		return entity.RoleVendor, nil
	})

	assert.Equal(t, access.PhaseUnresolved, r.State().Phase)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Resolve(context.Background())
	}()
	<-entered

	state := r.State()
	assert.Equal(t, access.PhaseResolving, state.Phase)
	_, known := state.Known()
	assert.False(t, known)

	close(release)
	<-done
	role, ok := r.State().Known()
	assert.True(t, ok)
	assert.Equal(t, entity.RoleVendor, role)
}

func TestRoleResolver_NoRecordFailsClosed(t *testing.T) {
	s := signedInSession(t, "ghost@example.com")
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		return "", &RoleResolutionError{Email: email, NoRecord: true}
	})

	role, err := r.Resolve(context.Background())
	assert.Empty(t, role)
	var rerr *RoleResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.NoRecord)
	assert.Equal(t, access.PhaseFailed, r.State().Phase)
}

func TestRoleResolver_UnknownRoleFailsClosed(t *testing.T) {
	s := signedInSession(t, "odd@example.com")
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		return entity.Role("superuser"), nil
	})

	_, err := r.Resolve(context.Background())
	var rerr *RoleResolutionError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, access.PhaseFailed, r.State().Phase)
}

func TestRoleResolver_CachesAndResetsOnSignOut(t *testing.T) {
	s := signedInSession(t, "u@example.com")
	var lookups int32
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		atomic.AddInt32(&lookups, 1)
		return entity.RoleUser, nil
	})

	for i := 0; i < 3; i++ {
		role, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, role)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&lookups))

	require.NoError(t, s.SignOut())
	assert.Equal(t, access.PhaseUnresolved, r.State().Phase)

	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestRoleResolver_RetriesAfterFailure(t *testing.T) {
	s := signedInSession(t, "u@example.com")
	fail := true
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		if fail {
			return "", errors.New("network down")
		}
		return entity.RoleUser, nil
	})

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	fail = false
	role, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, role)
}

func TestRoleResolver_DropsLookupForPreviousIdentity(t *testing.T) {
	idp := newFakeIdentity(map[string]string{"a@example.com": "pw", "b@example.com": "pw"})
	s := NewSession(idp, nil)
	_, err := s.SignIn(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	release := make(chan struct{})
	entered := make(chan struct{}, 2)
	r := NewRoleResolver(s, func(ctx context.Context, email string) (entity.Role, error) {
		entered <- struct{}{}
		if email == "a@example.com" {
			<-release
			return entity.RoleAdmin, nil
		}
		return entity.RoleUser, nil
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Resolve(context.Background())
		errCh <- err
	}()
	<-entered

	_, err = s.SignIn(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStale)
	assert.NotEqual(t, access.PhaseResolved, r.State().Phase, "admin role of the previous account must not leak")
}
