package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/adapter"
)

var _ adapter.IdentityVerifier = (*SupabaseVerifier)(nil)

// SupabaseVerifier validates Supabase-issued access tokens locally: HS256
// signature against the project JWT secret plus standard claim checks. The
// super-admin flag lives in identity metadata, so resolving it never touches
// the subscription store.
type SupabaseVerifier struct {
	secret []byte
	log    *zerolog.Logger
}

func NewSupabaseVerifier(jwtSecret string, logger *zerolog.Logger) *SupabaseVerifier {
	return &SupabaseVerifier{secret: []byte(jwtSecret), log: logger}
}

type supabaseClaims struct {
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	var claims supabaseClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		v.log.Debug().Err(err).Msg("token verification failed")
		return nil, domain.ErrInvalidArgument
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidArgument
	}

	return &model.Identity{
		ID:         claims.Subject,
		Email:      claims.Email,
		SuperAdmin: metaFlag(claims.AppMetadata, "is_super_admin") || metaFlag(claims.UserMetadata, "is_super_admin"),
	}, nil
}

func metaFlag(meta map[string]any, key string) bool {
	if meta == nil {
		return false
	}
	b, _ := meta[key].(bool)
	return b
}
