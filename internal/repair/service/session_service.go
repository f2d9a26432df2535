package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitfantasy/repairtrack/internal/config"
	"github.com/bitfantasy/repairtrack/internal/repair/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid username or password")

// Session 当前登录会话
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Mode      string    `json:"mode"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService 单会话管理，会话保存在 KV 的 <namespace>:session
type SessionService struct {
	kv     repository.KV
	key    string
	jwt    config.JWTConfig
	auth   config.AuthConfig
	mode   string
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *Session
}

// NewSessionService mode 为当前存储后端（remote / local）
func NewSessionService(kv repository.KV, namespace string, cfg *config.Config, mode string, logger *zap.Logger) *SessionService {
	return &SessionService{
		kv:     kv,
		key:    repository.StoreKey(namespace, "session"),
		jwt:    cfg.JWT,
		auth:   cfg.Auth,
		mode:   mode,
		logger: logger,
		now:    time.Now,
	}
}

// Restore 启动时恢复会话，失败只记录日志并视为未登录
func (s *SessionService) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil

	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to restore session", zap.Error(err))
		return
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("discarding unreadable session", zap.Error(err))
		return
	}
	if !session.ExpiresAt.After(s.now()) {
		s.logger.Info("stored session expired", zap.String("session_id", session.ID))
		return
	}
	s.current = &session
	s.logger.Info("session restored", zap.String("user", session.Username), zap.String("mode", session.Mode))
}

// Login 校验账号密码并签发令牌，替换已有会话
func (s *SessionService) Login(ctx context.Context, username, password string) (*Session, error) {
	if s.auth.Username == "" || s.auth.PasswordHash == "" || username != s.auth.Username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.auth.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		Username:  username,
		Mode:      s.mode,
		CreatedAt: now,
		ExpiresAt: now.Add(s.jwt.AccessTokenExpire),
	}

	claims := jwt.MapClaims{
		"sub":  username,
		"name": username,
		"mode": s.mode,
		"iss":  s.jwt.Issuer,
		"iat":  now.Unix(),
		"exp":  session.ExpiresAt.Unix(),
		"jti":  session.ID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	session.Token = token

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
	return session, nil
}

// Logout 结束当前会话
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current 当前会话，未登录返回 nil
func (s *SessionService) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || !s.current.ExpiresAt.After(s.now()) {
		return nil
	}
	session := *s.current
	return &session
}

// IsActive 令牌的会话ID是否为当前会话
func (s *SessionService) IsActive(_ context.Context, sessionID string) bool {
	current := s.Current()
	return current != nil && sessionID != "" && current.ID == sessionID
}
