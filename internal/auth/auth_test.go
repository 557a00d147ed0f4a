package auth

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/authpb"
)

func init() { zerolog.SetGlobalLevel(zerolog.Disabled) }

type memRepo struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	sessions map[string]*Session
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: map[string]*Profile{}, sessions: map[string]*Session{}}
}

func (r *memRepo) CreateProfile(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.profiles {
		if x.Email == p.Email {
			return ErrAlreadyExist
		}
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *memRepo) GetProfileByID(_ context.Context, id string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetProfileByEmail(_ context.Context, email string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) CreateSession(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.Token] = &cp
	return nil
}

func (r *memRepo) GetSession(_ context.Context, token string) (*Session, *Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	return s, r.profiles[s.ProfileID], nil
}

func (r *memRepo) DeleteSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", h)
	assert.True(t, CheckPassword(h, "s3cret-pass"))
	assert.False(t, CheckPassword(h, "wrong-pass"))
}

func TestSignUpInputValidate(t *testing.T) {
	in := SignUpInput{Email: "  Ana@Example.COM ", Password: "longenough"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "ana@example.com", in.Email)
	assert.Equal(t, RoleStaff, in.Role)

	cases := map[string]SignUpInput{
		"missing email":  {Password: "longenough"},
		"bad email":      {Email: "nope", Password: "longenough"},
		"short password": {Email: "a@b.co", Password: "short"},
		"bad role":       {Email: "a@b.co", Password: "longenough", Role: "owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			err := in.Validate()
			assert.Equal(t, apperr.KindValidation, apperr.Classify(err))
		})
	}
}

// startServer serves the auth service over an in-memory listener.
func startServer(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	authpb.RegisterAuthServiceServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn, 1, time.Millisecond)
}

func TestAuthFlow(t *testing.T) {
	repo := newMemRepo()
	srv := NewServer(repo, time.Hour)
	c := startServer(t, srv)
	ctx := context.Background()

	p, err := c.SignUp(ctx, SignUpInput{Email: "Chef@Trattoria.it", Password: "pasta-1234", FullName: "Luca", Role: RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "chef@trattoria.it", p.Email)
	assert.Equal(t, RoleManager, p.Role)

	_, err = c.SignUp(ctx, SignUpInput{Email: "chef@trattoria.it", Password: "pasta-1234"})
	assert.Equal(t, apperr.KindConflict, apperr.Classify(err))

	_, err = c.SignIn(ctx, "chef@trattoria.it", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))
	_, err = c.SignIn(ctx, "nobody@trattoria.it", "pasta-1234")
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))

	res, err := c.SignIn(ctx, "CHEF@trattoria.it", "pasta-1234")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, p.ProfileID, res.Profile.ProfileID)

	who, err := c.ValidateSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Luca", who.FullName)
	assert.Equal(t, RoleManager, who.Role)

	require.NoError(t, c.SignOut(ctx, res.Token))
	_, err = c.ValidateSession(ctx, res.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))

	// signing out twice is fine
	require.NoError(t, c.SignOut(ctx, res.Token))
}

func TestSignIn_UnknownEmailStillHashes(t *testing.T) {
	repo := newMemRepo()
	srv := NewServer(repo, time.Hour)
	var mu sync.Mutex
	var hashes []string
	srv.check = func(hash, pw string) bool {
		mu.Lock()
		hashes = append(hashes, hash)
		mu.Unlock()
		return CheckPassword(hash, pw)
	}
	c := startServer(t, srv)
	ctx := context.Background()

	_, err := c.SignUp(ctx, SignUpInput{Email: "chef@trattoria.it", Password: "pasta-1234"})
	require.NoError(t, err)

	_, err = c.SignIn(ctx, "nobody@trattoria.it", "pasta-1234")
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))
	_, err = c.SignIn(ctx, "chef@trattoria.it", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hashes, 2)
	assert.Equal(t, dummyHash(), hashes[0])
	assert.NotEqual(t, hashes[0], hashes[1])
	// the dummy never matches a real password
	assert.False(t, CheckPassword(dummyHash(), "pasta-1234"))
}

func TestValidateSession_Expired(t *testing.T) {
	repo := newMemRepo()
	srv := NewServer(repo, time.Hour)
	c := startServer(t, srv)
	ctx := context.Background()

	_, err := c.SignUp(ctx, SignUpInput{Email: "host@trattoria.it", Password: "pasta-1234"})
	require.NoError(t, err)
	res, err := c.SignIn(ctx, "host@trattoria.it", "pasta-1234")
	require.NoError(t, err)

	srv.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = c.ValidateSession(ctx, res.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.Classify(err))
	assert.Empty(t, repo.sessions)
}

func TestPurgeExpired(t *testing.T) {
	repo := newMemRepo()
	repo.sessions["old"] = &Session{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	repo.sessions["live"] = &Session{Token: "live", ExpiresAt: time.Now().Add(time.Hour)}
	srv := NewServer(repo, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { srv.PurgeExpired(ctx, 5*time.Millisecond); close(done) }()

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		_, ok := repo.sessions["old"]
		return !ok
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Contains(t, repo.sessions, "live")
}
