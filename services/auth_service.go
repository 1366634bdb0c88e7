package services

import (
	"log/slog"
	"team-chat/auth"
	"team-chat/domain"
	"team-chat/errors"
	"team-chat/infrastructure/storage"
)

type IAuthService interface {
	Login(req auth.LoginRequest) (Session, error)
	Register(req auth.RegisterRequest) (Session, error)
}

type Token string

func (t Token) String() string {
	return string(t)
}

// Session is returned on register and login. The token is what the socket namespaces expect.
type Session struct {
	Token Token              `json:"token"`
	User  domain.UserProfile `json:"user"`
}

type AuthService struct {
	log            *slog.Logger
	userRepository storage.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(log *slog.Logger, repo storage.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{log: log.With("service", "auth"), userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(req auth.RegisterRequest) (Session, error) {
	// Validate before any expensive hashing
	if err := auth.ValidateRegister(req); err != nil {
		return Session{}, err
	}

	// The repository never sees plain passwords
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, err
	}

	userID, err := s.userRepository.CreateUser(req.Username, req.Email, hashedPassword)
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.GenerateToken(userID, []string{"user"})
	if err != nil {
		return Session{}, err
	}
	s.log.Info("User registered", "user_id", userID)
	return Session{Token: Token(token), User: domain.UserProfile{ID: userID, Username: req.Username}}, nil
}

func (s *AuthService) Login(req auth.LoginRequest) (Session, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return Session{}, err
	}
	user, err := s.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		// Same answer as a wrong password: no account enumeration
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: Token(token), User: user.Profile()}, nil
}
