package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/coverwise/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ActorIDKey is the context key for the authenticated policyholder ID.
const ActorIDKey contextKey = "actor_id"

// GetActorID extracts the authenticated policyholder ID from the context.
func GetActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ActorIDKey).(int64)
	return id, ok
}

// WithActor returns ctx carrying the given actor.
func WithActor(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ActorIDKey, id)
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the policyholder ID to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			claims, err := parseBearer(jwtManager, authHeader)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			id, err := claims.PolicyholderID()
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithActor(ctx, id), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication. An invalid token is ignored, not rejected.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if authHeader := req.Header().Get("Authorization"); authHeader != "" {
				if claims, err := parseBearer(jwtManager, authHeader); err == nil {
					if id, err := claims.PolicyholderID(); err == nil {
						ctx = WithActor(ctx, id)
					}
				}
			}
			return next(ctx, req)
		}
	}
}

func parseBearer(jwtManager *auth.JWTManager, header string) (*auth.Claims, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}
	return jwtManager.Validate(parts[1])
}
