package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the identity attached to a request. A nil session means the
// caller is anonymous.
type Session struct {
	UserID   uint
	Username string
}

type sessionContextKey struct{}

// WithSession attaches a session to a request context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext returns the session of the calling user, or nil for
// anonymous requests.
func FromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey{}).(*Session)
	return session
}

// IsAuthenticated reports whether the context carries a valid session.
func IsAuthenticated(ctx context.Context) bool {
	return FromContext(ctx) != nil
}

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService issues and validates the signed session cookie payload.
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService builds a session service. An empty secret gets
// replaced by a random one, which invalidates sessions across restarts.
func NewSessionService(secret string, ttl time.Duration) *SessionService {
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		key = []byte(hex.EncodeToString(buf))
		log.Println("[Warning] session_secret not configured, sessions will not survive restarts")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionService{secret: key, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed session token for the given user.
func (s *SessionService) Issue(userID uint, username string) (string, time.Time, error) {
	expiry := time.Now().Add(s.ttl)
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      expiry.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiry, nil
}

// Parse validates a session token and returns the session it carries.
func (s *SessionService) Parse(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidSession
	}
	username, _ := claims["username"].(string)

	return &Session{UserID: uint(userID), Username: username}, nil
}
