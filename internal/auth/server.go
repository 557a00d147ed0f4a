package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/authpb"
)

var errBadCredentials = apperr.Unauthorized("invalid email or password")

type Server struct {
	authpb.UnimplementedAuthServiceServer
	repo  Repository
	ttl   time.Duration
	now   func() time.Time
	check func(hash, pw string) bool
}

func NewServer(repo Repository, ttl time.Duration) *Server {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Server{repo: repo, ttl: ttl, now: time.Now, check: CheckPassword}
}

// toStatus maps a domain error onto the gRPC code the client classifies
// back into the same kind.
func toStatus(err error) error {
	var code codes.Code
	switch apperr.Classify(err) {
	case apperr.KindValidation:
		code = codes.InvalidArgument
	case apperr.KindNotFound:
		code = codes.NotFound
	case apperr.KindConflict:
		code = codes.AlreadyExists
	case apperr.KindUnauthorized:
		code = codes.Unauthenticated
	case apperr.KindForbidden:
		code = codes.PermissionDenied
	case apperr.KindNetwork:
		code = codes.Unavailable
	default:
		log.Error().Err(err).Msg("[auth] internal error")
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, apperr.UserMessage(err))
}

func profileStruct(p *Profile) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"email":     p.Email,
		"full_name": p.FullName,
		"role":      p.Role,
	}
}

func str(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func (s *Server) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := SignUpInput{
		Email:    str(in, "email"),
		Password: str(in, "password"),
		FullName: str(in, "full_name"),
		Role:     str(in, "role"),
	}
	if err := req.Validate(); err != nil {
		return nil, toStatus(err)
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hash error: %v", err)
	}
	p := &Profile{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, toStatus(err)
	}
	log.Info().Str("profile_id", p.ID).Str("role", p.Role).Msg("[auth] profile created")
	return structpb.NewStruct(profileStruct(p))
}

func (s *Server) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email, pw := NormalizeEmail(str(in, "email")), str(in, "password")
	if email == "" || pw == "" {
		return nil, toStatus(apperr.Validation("email and password are required"))
	}
	p, err := s.repo.GetProfileByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		s.check(dummyHash(), pw)
		return nil, toStatus(errBadCredentials)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	if !s.check(p.PasswordHash, pw) {
		return nil, toStatus(errBadCredentials)
	}
	sess := &Session{
		Token:     uuid.NewString(),
		ProfileID: p.ID,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, toStatus(err)
	}
	log.Info().Str("profile_id", p.ID).Msg("[auth] signed in")
	return structpb.NewStruct(map[string]any{
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
		"profile":    profileStruct(p),
	})
}

func (s *Server) ValidateSession(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	tok := in.GetValue()
	if tok == "" {
		return nil, toStatus(ErrSessionNotFound)
	}
	sess, p, err := s.repo.GetSession(ctx, tok)
	if err != nil {
		return nil, toStatus(err)
	}
	if sess.Expired(s.now()) {
		_ = s.repo.DeleteSession(ctx, tok)
		return nil, toStatus(ErrSessionNotFound)
	}
	return structpb.NewStruct(profileStruct(p))
}

// SignOut is idempotent: unknown tokens are not an error.
func (s *Server) SignOut(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if in.GetValue() == "" {
		return nil, toStatus(apperr.Validation("token is required"))
	}
	if err := s.repo.DeleteSession(ctx, in.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// PurgeExpired deletes expired sessions every interval until ctx is done.
func (s *Server) PurgeExpired(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.repo.DeleteExpired(ctx, s.now())
			if err != nil {
				log.Warn().Err(err).Msg("[auth] purge expired sessions")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("[auth] purged expired sessions")
			}
		}
	}
}
