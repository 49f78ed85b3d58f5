package services

import (
	"crypto/subtle"
	"errors"

	"github.com/kdiomande/maillots/config"
	"github.com/kdiomande/maillots/pkg/auth"
)

// ErrInvalidCredentials is returned on any username/password mismatch. The
// caller answers 401 without saying which half was wrong.
var ErrInvalidCredentials = errors.New("identifiants invalides")

// AuthService checks the single configured admin credential pair and issues
// session tokens. There is no user table: one shared credential guards the
// whole admin panel.
type AuthService struct {
	Username string
	Password string // plain-text credential; ignored when PassHash is set
	PassHash string // bcrypt hash, takes precedence over Password
}

// NewAuthService builds the service from process configuration.
func NewAuthService() *AuthService {
	return &AuthService{
		Username: config.AdminUser(),
		Password: config.AdminPass(),
		PassHash: config.AdminPassHash(),
	}
}

// Login verifies the credential pair and returns a signed session token
// valid for auth.TokenTTL. Comparison is constant-time; with a configured
// hash, bcrypt does the work instead.
func (s *AuthService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1

	var passOK bool
	if s.PassHash != "" {
		passOK = auth.CheckPassword(s.PassHash, password)
	} else {
		passOK = s.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	}

	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken()
}
