package auth

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/restaurant-pos/internal/authpb"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/retry"
)

// Client talks to the auth service. Calls that fail on the network are
// retried with backoff; every other failure is returned at once.
type Client struct {
	rpc      authpb.AuthServiceClient
	conn     *grpc.ClientConn
	attempts int
	base     time.Duration
	timeout  time.Duration
}

func Dial(addr string, attempts int, base time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("auth: dial %s: %w", addr, err)
	}
	c := NewClient(conn, attempts, base)
	c.conn = conn
	return c, nil
}

func NewClient(cc grpc.ClientConnInterface, attempts int, base time.Duration) *Client {
	return &Client{
		rpc:      authpb.NewAuthServiceClient(cc),
		attempts: attempts,
		base:     base,
		timeout:  5 * time.Second,
	}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.DoRetryable(ctx, c.attempts, c.base, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(ctx)
	})
}

func principal(s *structpb.Struct) *httpx.Principal {
	return &httpx.Principal{
		ProfileID: str(s, "id"),
		Email:     str(s, "email"),
		FullName:  str(s, "full_name"),
		Role:      str(s, "role"),
	}
}

func (c *Client) ValidateSession(ctx context.Context, token string) (*httpx.Principal, error) {
	var out *structpb.Struct
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.rpc.ValidateSession(ctx, wrapperspb.String(token))
		return err
	})
	if err != nil {
		return nil, err
	}
	return principal(out), nil
}

// SignInResult session model
// swagger:model SignInResult
type SignInResult struct {
	Token     string           `json:"token"`
	ExpiresAt string           `json:"expires_at"`
	Profile   *httpx.Principal `json:"profile"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	in, err := structpb.NewStruct(map[string]any{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var out *structpb.Struct
	err = c.call(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.rpc.SignIn(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		Token:     str(out, "token"),
		ExpiresAt: str(out, "expires_at"),
		Profile:   principal(out.GetFields()["profile"].GetStructValue()),
	}, nil
}

func (c *Client) SignUp(ctx context.Context, req SignUpInput) (*httpx.Principal, error) {
	in, err := structpb.NewStruct(map[string]any{
		"email":     req.Email,
		"password":  req.Password,
		"full_name": req.FullName,
		"role":      req.Role,
	})
	if err != nil {
		return nil, err
	}
	var out *structpb.Struct
	err = c.call(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.rpc.SignUp(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return principal(out), nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.call(ctx, func(ctx context.Context) error {
		_, err := c.rpc.SignOut(ctx, wrapperspb.String(token))
		return err
	})
}
