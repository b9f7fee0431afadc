package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/repository"
)

const tokenLifetime = 72 * time.Hour

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtSecret   string
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	existingUser, err := s.userRepo.GetByEmail(req.Email)
	if err == nil && existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	existingUser, err = s.userRepo.GetByUsername(req.Username)
	if err == nil && existingUser != nil {
		return nil, errors.New("user with this username already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := validatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      "user",
		IsActive:  true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials, issues a JWT and records the session.
func (s *AuthService) Login(req models.LoginRequest, ipAddress, userAgent string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(req.Email))
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if !user.IsActive {
		return "", nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.userRepo.RecordLogin(user.ID, now); err != nil {
		return "", nil, err
	}

	expiresAt := now.Add(tokenLifetime)
	session := &models.UserSession{
		UserID:       user.ID,
		Token:        token,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		IsActive:     true,
		LastActivity: now,
		ExpiresAt:    &expiresAt,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Logout deactivates every session carrying the token.
func (s *AuthService) Logout(token string) error {
	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.sessionRepo.Terminate(session.ID, session.UserID)
}

// RefreshToken exchanges a still-valid token for a fresh one and rotates the
// session row carrying it.
func (s *AuthService) RefreshToken(tokenString string) (string, *models.User, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return "", nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", nil, errors.New("invalid token claims")
	}
	userIDClaim, ok := claims["user_id"].(float64)
	if !ok {
		return "", nil, errors.New("invalid token claims")
	}

	user, err := s.userRepo.GetByID(uint(userIDClaim))
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, errors.New("account is deactivated")
	}

	newToken, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	if session, err := s.sessionRepo.GetByToken(tokenString); err == nil {
		now := time.Now()
		expiresAt := now.Add(tokenLifetime)
		session.Token = newToken
		session.LastActivity = now
		session.ExpiresAt = &expiresAt
		if err := s.sessionRepo.Update(session); err != nil {
			return "", nil, err
		}
	}

	return newToken, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
}

func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.GetByUsername(username)
}

func (s *AuthService) GetAllUsers(query string, limit int) ([]models.User, error) {
	return s.userRepo.GetAll(query, limit)
}

// DeleteUser removes the account and everything it owns.
func (s *AuthService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}

func (s *AuthService) UpdateUserRole(id uint, role string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}

	user.Role = role
	return s.userRepo.Update(user)
}

func (s *AuthService) UpdateUserStatus(id uint, isActive bool) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}

	user.IsActive = isActive
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if !isActive {
		// A deactivated user keeps no live sessions.
		_, err = s.sessionRepo.TerminateAll(id)
	}
	return err
}

func (s *AuthService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != user.Username {
		existingUser, _ := s.userRepo.GetByUsername(req.Username)
		if existingUser != nil {
			return nil, errors.New("username already taken")
		}
		user.Username = req.Username
	}

	if req.Email != "" && !strings.EqualFold(req.Email, user.Email) {
		existingUser, _ := s.userRepo.GetByEmail(strings.ToLower(req.Email))
		if existingUser != nil {
			return nil, errors.New("email already taken")
		}
		user.Email = strings.ToLower(req.Email)
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Bio = req.Bio
	user.Website = req.Website
	user.Location = req.Location
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("incorrect old password")
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	// Password change invalidates every other session.
	_, err = s.sessionRepo.TerminateAll(userID)
	return err
}

func (s *AuthService) TouchLastSeen(userID uint) error {
	return s.userRepo.TouchLastSeen(userID, time.Now())
}

func validatePasswordStrength(password string) error {
	var requirements []string

	if len(password) < 8 {
		requirements = append(requirements, "at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		requirements = append(requirements, "an uppercase letter")
	}
	if !hasLower {
		requirements = append(requirements, "a lowercase letter")
	}
	if !hasDigit {
		requirements = append(requirements, "a digit")
	}

	if len(requirements) > 0 {
		return fmt.Errorf("password must contain %s", strings.Join(requirements, ", "))
	}
	return nil
}
