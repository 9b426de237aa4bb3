package service

import (
	"errors"
	"strings"
	"time"

	"github.com/dujiao-next/cupcake/internal/config"
	"github.com/dujiao-next/cupcake/internal/logger"
	"github.com/dujiao-next/cupcake/internal/models"
	"github.com/dujiao-next/cupcake/internal/repository"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AccountService 账户服务：注册、登录与令牌
type AccountService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	captcha  *CaptchaService
}

// NewAccountService 创建账户服务
func NewAccountService(cfg *config.Config, userRepo repository.UserRepository, captcha *CaptchaService) *AccountService {
	return &AccountService{
		cfg:      cfg,
		userRepo: userRepo,
		captcha:  captcha,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	CaptchaID   string `json:"captcha_id" form:"captcha_id"`
	CaptchaCode string `json:"captcha_code" form:"captcha_code"`
}

// LoginInput 登录参数
type LoginInput struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	CaptchaID   string `json:"captcha_id" form:"captcha_id"`
	CaptchaCode string `json:"captcha_code" form:"captcha_code"`
}

// AccountClaims API 令牌声明
type AccountClaims struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Register 注册新顾客并返回需要建立的会话身份
func (s *AccountService) Register(input RegisterInput) (*models.User, session.Identity, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)
	if name == "" || email == "" || password == "" {
		return nil, session.Identity{}, ErrFieldsRequired
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, session.Identity{}, err
	}
	if err := validatePassword(s.passwordMinLength(), password); err != nil {
		return nil, session.Identity{}, err
	}
	if err := s.captcha.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
		return nil, session.Identity{}, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, session.Identity{}, err
	}
	if exist != nil {
		return nil, session.Identity{}, ErrEmailExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, session.Identity{}, err
	}
	user := &models.User{
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, session.Identity{}, ErrEmailExists
		}
		return nil, session.Identity{}, err
	}
	logger.Infow("account_registered", "user_id", user.ID)
	return user, session.IdentityOf(user), nil
}

// Authenticate 校验邮箱与密码
func (s *AccountService) Authenticate(input LoginInput) (*models.User, session.Identity, error) {
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, session.Identity{}, ErrLoginFieldsRequired
	}
	if err := s.captcha.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
		return nil, session.Identity{}, err
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, session.Identity{}, err
	}
	if user == nil {
		return nil, session.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, session.Identity{}, ErrInvalidCredentials
	}
	return user, session.IdentityOf(user), nil
}

// IssueToken 为身份签发 API 令牌
func (s *AccountService) IssueToken(identity session.Identity) (string, time.Time, error) {
	if !identity.IsAuthenticated() {
		return "", time.Time{}, ErrNotAuthenticated
	}
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := AccountClaims{
		UserID:  identity.UserID,
		Name:    identity.Name,
		IsAdmin: identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 解析 API 令牌并还原身份
func (s *AccountService) ParseToken(tokenString string) (session.Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &AccountClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return session.Identity{}, ErrInvalidToken
	}
	return session.Identity{UserID: claims.UserID, Name: claims.Name, IsAdmin: claims.IsAdmin}, nil
}

func (s *AccountService) passwordMinLength() int {
	if s.cfg == nil {
		return defaultPasswordMinLength
	}
	return s.cfg.Security.PasswordMinLength
}

// HashPassword 使用 bcrypt 生成密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// normalizeEmail 转小写并要求 "@" 之后出现 "."
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(email, "@")
	if at < 0 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
