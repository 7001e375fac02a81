package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/model"
	"github.com/yudhapr/pasarloak/internal/store"
)

// fakeBackend lets each test script exactly the calls it expects.
type fakeBackend struct {
	loginFn        func(email, password string) (*api.LoginResponse, error)
	registerFn     func(req api.RegisterRequest) error
	profileFn      func() (*model.User, error)
	updateFn       func(id int64, fields model.ProfileUpdate) (*model.User, error)
	becomeSellerFn func(id int64) error

	profileCalls int
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*api.LoginResponse, error) {
	return f.loginFn(email, password)
}

func (f *fakeBackend) Register(_ context.Context, req api.RegisterRequest) error {
	return f.registerFn(req)
}

func (f *fakeBackend) Profile(context.Context) (*model.User, error) {
	f.profileCalls++
	return f.profileFn()
}

func (f *fakeBackend) UpdateUser(_ context.Context, id int64, fields model.ProfileUpdate) (*model.User, error) {
	return f.updateFn(id, fields)
}

func (f *fakeBackend) BecomeSeller(_ context.Context, id int64) error {
	return f.becomeSellerFn(id)
}

type fakeProvider struct {
	token      string
	restoreErr error
	signOutErr error

	signedOutWith *string
}

func (f *fakeProvider) RestoreToken(context.Context) (string, error) {
	return f.token, f.restoreErr
}

func (f *fakeProvider) SignOut(_ context.Context, accessToken string) error {
	f.signedOutWith = &accessToken
	return f.signOutErr
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return s
}

func newTestManager(t *testing.T, backend Backend, provider Provider) (*Manager, store.Store) {
	t.Helper()
	st := newTestStore(t)
	m := NewManager(st, provider)
	m.Bind(backend)
	return m, st
}

func TestLogin_StoresTokenAndNormalizedUser(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(email, password string) (*api.LoginResponse, error) {
			assert.Equal(t, "a@b.com", email)
			assert.Equal(t, "x", password)
			return &api.LoginResponse{Token: "T1", User: model.User{ID: 7, Name: "Ani", Email: "a@b.com"}}, nil
		},
	}
	m, st := newTestManager(t, backend, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "a@b.com", "x"))

	assert.Equal(t, "T1", m.CurrentToken())
	assert.True(t, m.IsAuthenticated())
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, int64(7), m.CurrentUser().ID)
	assert.False(t, bool(m.CurrentUser().IsSeller))

	token, err := st.GetString(ctx, store.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "T1", token)
	var persisted model.User
	require.NoError(t, st.GetJSON(ctx, store.KeyUser, &persisted))
	assert.Equal(t, int64(7), persisted.ID)
}

func TestLogin_OverwritesPriorSession(t *testing.T) {
	responses := []*api.LoginResponse{
		{Token: "T1", User: model.User{ID: 7, Email: "a@b.com"}},
		{Token: "T2", User: model.User{ID: 8, Email: "c@d.com"}},
	}
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			res := responses[0]
			responses = responses[1:]
			return res, nil
		},
	}
	m, _ := newTestManager(t, backend, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "a@b.com", "x"))
	require.NoError(t, m.Login(ctx, "c@d.com", "y"))
	assert.Equal(t, "T2", m.CurrentToken())
	assert.Equal(t, int64(8), m.CurrentUser().ID)
}

func TestLogin_SurfacesBackendMessage(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return nil, &api.Error{Status: http.StatusUnauthorized, Message: "Email atau password salah"}
		},
	}
	m, _ := newTestManager(t, backend, nil)

	err := m.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Email atau password salah", err.Error())
	assert.False(t, m.IsAuthenticated())
}

func TestLogin_FallsBackToGenericMessage(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	m, _ := newTestManager(t, backend, nil)

	err := m.Login(context.Background(), "a@b.com", "x")
	require.Error(t, err)
	assert.Equal(t, "Login gagal", err.Error())
}

func TestLogin_MissingTokenIsAnError(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{User: model.User{ID: 7}}, nil
		},
	}
	m, _ := newTestManager(t, backend, nil)

	err := m.Login(context.Background(), "a@b.com", "x")
	require.Error(t, err)
	assert.Equal(t, "Token tidak tersedia", err.Error())
	assert.False(t, m.IsAuthenticated())
}

func TestRegister_LogsInWithSameCredentials(t *testing.T) {
	var registered api.RegisterRequest
	backend := &fakeBackend{
		registerFn: func(req api.RegisterRequest) error {
			registered = req
			return nil
		},
		loginFn: func(email, password string) (*api.LoginResponse, error) {
			assert.Equal(t, "a@b.com", email)
			assert.Equal(t, "x", password)
			return &api.LoginResponse{Token: "T1", User: model.User{ID: 7, Email: email}}, nil
		},
	}
	m, _ := newTestManager(t, backend, nil)

	require.NoError(t, m.Register(context.Background(), "Ani", "a@b.com", "x", nil))
	assert.Equal(t, "Ani", registered.Name)
	assert.True(t, m.IsAuthenticated())
}

func TestRegister_SurfacesBackendMessage(t *testing.T) {
	backend := &fakeBackend{
		registerFn: func(api.RegisterRequest) error {
			return &api.Error{Status: http.StatusConflict, Message: "Email sudah terdaftar"}
		},
	}
	m, _ := newTestManager(t, backend, nil)

	err := m.Register(context.Background(), "Ani", "a@b.com", "x", nil)
	require.Error(t, err)
	assert.Equal(t, "Email sudah terdaftar", err.Error())
}

func TestRestore_UsesCachedProfileWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{
		profileFn: func() (*model.User, error) {
			return nil, errors.New("must not be called")
		},
	}
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SetJSON(ctx, store.KeyUser, model.User{ID: 7, Name: "Ani"}))

	m := NewManager(st, &fakeProvider{token: "T1"})
	m.Bind(backend)
	m.Restore(ctx)

	assert.Equal(t, "T1", m.CurrentToken())
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "Ani", m.CurrentUser().Name)
	assert.Zero(t, backend.profileCalls)
}

func TestRestore_HydratesProfileWhenNotCached(t *testing.T) {
	backend := &fakeBackend{
		profileFn: func() (*model.User, error) {
			return &model.User{ID: 7, Name: "Ani", IsSeller: true}, nil
		},
	}
	st := newTestStore(t)
	m := NewManager(st, &fakeProvider{token: "T1"})
	m.Bind(backend)
	ctx := context.Background()

	m.Restore(ctx)

	assert.Equal(t, 1, backend.profileCalls)
	require.NotNil(t, m.CurrentUser())
	assert.True(t, bool(m.CurrentUser().IsSeller))
	var persisted model.User
	require.NoError(t, st.GetJSON(ctx, store.KeyUser, &persisted))
	assert.Equal(t, "Ani", persisted.Name)
}

func TestRestore_HydrationFailureLeavesTokenOnlySession(t *testing.T) {
	backend := &fakeBackend{
		profileFn: func() (*model.User, error) {
			return nil, &api.Error{Status: http.StatusInternalServerError}
		},
	}
	m, _ := newTestManager(t, backend, &fakeProvider{token: "T1"})

	m.Restore(context.Background())

	assert.True(t, m.IsAuthenticated())
	assert.Nil(t, m.CurrentUser())
}

func TestRestore_NoProviderSessionStaysSignedOut(t *testing.T) {
	m, _ := newTestManager(t, &fakeBackend{}, &fakeProvider{})
	m.Restore(context.Background())
	assert.False(t, m.IsAuthenticated())
}

func TestLogout_ClearsEverythingAndSwallowsRemoteFailure(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{Token: "T1", User: model.User{ID: 7}}, nil
		},
	}
	provider := &fakeProvider{signOutErr: errors.New("provider down")}
	m, st := newTestManager(t, backend, provider)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "a@b.com", "x"))

	assert.True(t, m.Logout(ctx, true))

	require.NotNil(t, provider.signedOutWith)
	assert.Equal(t, "T1", *provider.signedOutWith)
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.CurrentUser())
	_, err := st.GetString(ctx, store.KeyToken)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.GetJSON(ctx, store.KeyUser, &model.User{}), store.ErrNotFound)
}

func TestLogout_PassesRedirectFlagThrough(t *testing.T) {
	m, _ := newTestManager(t, &fakeBackend{}, &fakeProvider{})
	ctx := context.Background()
	assert.True(t, m.Logout(ctx, true))
	assert.False(t, m.Logout(ctx, false))
}

func TestBecomeSeller_FlipsAndPersistsOneWay(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{Token: "T1", User: model.User{ID: 7, IsSeller: false}}, nil
		},
		becomeSellerFn: func(id int64) error {
			assert.Equal(t, int64(7), id)
			return nil
		},
	}
	m, st := newTestManager(t, backend, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "a@b.com", "x"))

	require.NoError(t, m.BecomeSeller(ctx))

	assert.True(t, bool(m.CurrentUser().IsSeller))
	var persisted model.User
	require.NoError(t, st.GetJSON(ctx, store.KeyUser, &persisted))
	assert.True(t, bool(persisted.IsSeller))
}

func TestBecomeSeller_NoopWithoutUser(t *testing.T) {
	backend := &fakeBackend{
		becomeSellerFn: func(int64) error {
			t.Fatal("must not hit the backend without a current user")
			return nil
		},
	}
	m, _ := newTestManager(t, backend, nil)
	assert.NoError(t, m.BecomeSeller(context.Background()))
}

func TestUpdateProfile_AdoptsCanonicalServerRecord(t *testing.T) {
	name := "Ani Baru"
	backend := &fakeBackend{
		loginFn: func(string, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{Token: "T1", User: model.User{ID: 7, Email: "a@b.com"}}, nil
		},
		updateFn: func(id int64, fields model.ProfileUpdate) (*model.User, error) {
			require.NotNil(t, fields.Name)
			// Server normalizes beyond what was submitted.
			return &model.User{ID: id, Name: "Ani Baru", Email: "normalized@b.com"}, nil
		},
	}
	m, st := newTestManager(t, backend, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "a@b.com", "x"))

	updated, err := m.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "normalized@b.com", updated.Email)
	assert.Equal(t, "normalized@b.com", m.CurrentUser().Email)
	var persisted model.User
	require.NoError(t, st.GetJSON(ctx, store.KeyUser, &persisted))
	assert.Equal(t, "normalized@b.com", persisted.Email)
}

func TestUpdateProfile_RequiresUser(t *testing.T) {
	m, _ := newTestManager(t, &fakeBackend{}, nil)
	_, err := m.UpdateProfile(context.Background(), model.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
