package session

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"venuedesk/authority"

	"github.com/fundwit/go-commons/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenExpiration = 7 * 24 * time.Hour

	tokenIssuer       = "venuedesk"
	secretEnvVariable = "AUTH_SECRET"
)

var ErrInvalidToken = errors.New("invalid token")

var (
	secretMu     sync.Mutex
	signSecret   []byte
	secretLoaded bool
)

// Claims is the JWT payload: identity, vendor scope and the permission
// set resolved at login time.
type Claims struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Kind     string   `json:"kind"`
	VendorID string   `json:"vendorId,omitempty"`
	RoleID   string   `json:"roleId,omitempty"`
	Perms    []string `json:"perms,omitempty"`

	jwt.RegisteredClaims
}

func SignSession(s *Session) (string, error) {
	secret, err := loadSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		Name:  s.Identity.Name,
		Email: s.Identity.Email,
		Kind:  s.Kind,
		Perms: s.Perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   s.Identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiration)),
			ID:        uuid.New().String(),
		},
	}
	if s.VendorID != 0 {
		claims.VendorID = s.VendorID.String()
	}
	if s.RoleID != 0 {
		claims.RoleID = s.RoleID.String()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseToken(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	id, err := types.ParseID(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	s := Session{
		Token:    token,
		Identity: Identity{ID: id, Name: claims.Name, Email: claims.Email},
		Kind:     claims.Kind,
		Perms:    authority.Permissions(claims.Perms),
	}
	if claims.VendorID != "" {
		if s.VendorID, err = types.ParseID(claims.VendorID); err != nil {
			return nil, ErrInvalidToken
		}
	}
	if claims.RoleID != "" {
		if s.RoleID, err = types.ParseID(claims.RoleID); err != nil {
			return nil, ErrInvalidToken
		}
	}
	if s.Perms == nil {
		s.Perms = authority.Permissions{}
	}
	if claims.IssuedAt != nil {
		s.SigningTime = claims.IssuedAt.Time
	}
	return &s, nil
}

func loadSecret() ([]byte, error) {
	secretMu.Lock()
	defer secretMu.Unlock()
	if secretLoaded {
		return signSecret, nil
	}
	raw := strings.TrimSpace(os.Getenv(secretEnvVariable))
	if raw == "" {
		return nil, errors.New("environment variable " + secretEnvVariable + " is not set")
	}
	signSecret = []byte(raw)
	secretLoaded = true
	return signSecret, nil
}

// ResetSecret drops the cached signing secret so tests can swap it.
func ResetSecret() {
	secretMu.Lock()
	defer secretMu.Unlock()
	signSecret = nil
	secretLoaded = false
}
