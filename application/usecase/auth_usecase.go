package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/application/port/outbound"
	"github.com/codemastery/codemastery-api/domain/entity"
	domainerr "github.com/codemastery/codemastery-api/domain/error"
	"github.com/codemastery/codemastery-api/domain/valueobject"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
	"github.com/codemastery/codemastery-api/infrastructure/service/metrics"
)

const minNameLength = 2

// dummyPassword is hashed once and compared against when the email is unknown,
// so both login failure paths cost one bcrypt comparison.
const dummyPassword = "codemastery-login-timing"

// LoginThrottle bounds failed logins per client IP.
type LoginThrottle struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

type AuthUseCase struct {
	userRepo  outbound.UserRepository
	passwords outbound.PasswordService
	issuer    outbound.TokenIssuer
	rateLimit inbound.RateLimitService
	clock     outbound.Clock
	logger    logger.Logger
	metrics   metrics.Recorder
	throttle  LoginThrottle

	dummyOnce sync.Once
	dummyHash string
}

var _ inbound.AuthUseCase = (*AuthUseCase)(nil)

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	passwords outbound.PasswordService,
	issuer outbound.TokenIssuer,
	rateLimit inbound.RateLimitService,
	clock outbound.Clock,
	log logger.Logger,
	recorder metrics.Recorder,
	throttle LoginThrottle,
) *AuthUseCase {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthUseCase{
		userRepo:  userRepo,
		passwords: passwords,
		issuer:    issuer,
		rateLimit: rateLimit,
		clock:     clock,
		logger:    log,
		metrics:   recorder,
		throttle:  throttle,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.MeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, domainerr.ErrInvalidName("name must be at least 2 characters long")
	}

	email := entity.NormalizeEmail(req.Email)
	if !valueobject.ValidEmail(email) {
		return nil, domainerr.ErrInvalidEmail(req.Email)
	}

	if err := valueobject.ValidatePassword(req.Password); err != nil {
		return nil, domainerr.ErrInvalidPassword(err.Error())
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, domainerr.ErrDatabaseError("check email", err)
	}
	if exists {
		return nil, domainerr.ErrEmailAlreadyTaken
	}

	hash, err := uc.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, domainerr.ErrInternalServerError("failed to hash password", err)
	}

	user := entity.NewUser(uuid.NewString(), name, email, hash, uc.clock.Now())
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, domainerr.ErrEmailAlreadyTaken
		}
		return nil, domainerr.ErrDatabaseError("create user", err)
	}

	uc.logger.Info(ctx, "User registered", map[string]interface{}{"user_id": user.ID})
	return inbound.NewMeResponse(user), nil
}

// Login reports unknown email and wrong password identically.
func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*valueobject.TokenPair, error) {
	throttleKey := ""
	if req.ClientIP != "" {
		throttleKey = "login:ip:" + req.ClientIP
		if uc.isBlocked(ctx, throttleKey) {
			uc.metrics.LoginAttempt("blocked")
			return nil, domainerr.ErrIPBlocked(req.ClientIP, uc.throttle.BlockDuration.String())
		}
	}

	credentials, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		uc.metrics.LoginAttempt("invalid_request")
		if errors.Is(err, valueobject.ErrMissingPassword) {
			return nil, domainerr.ErrMissingField("password")
		}
		return nil, domainerr.ErrInvalidEmail(req.Email)
	}

	user, err := uc.userRepo.FindByEmail(ctx, credentials.Email())
	if err != nil {
		if !errors.Is(err, outbound.ErrUserNotFound) {
			return nil, domainerr.ErrDatabaseError("find user", err)
		}
		uc.compareDummy(credentials.Password())
		return nil, uc.loginFailed(ctx, throttleKey, req.ClientIP)
	}

	ok, err := uc.passwords.VerifyPassword(credentials.Password(), user.Password)
	if err != nil {
		uc.logger.Error(ctx, "Stored password hash unreadable", err, map[string]interface{}{"user_id": user.ID})
	}
	if !ok {
		return nil, uc.loginFailed(ctx, throttleKey, req.ClientIP)
	}

	pair, err := uc.issuer.IssuePair(user.Email)
	if err != nil {
		return nil, domainerr.ErrInternalServerError("failed to issue tokens", err)
	}

	if throttleKey != "" {
		if err := uc.rateLimit.Reset(ctx, throttleKey); err != nil {
			uc.logger.Warn(ctx, "Failed to reset login counter", map[string]interface{}{"error": err.Error()})
		}
	}

	uc.metrics.LoginAttempt("ok")
	uc.metrics.TokensIssued("login")
	logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, req.ClientIP, true, nil)

	return pair, nil
}

// Refresh issues a fresh pair for a principal resolved from a refresh token.
// The presented refresh token is not revoked and stays valid until its own exp.
func (uc *AuthUseCase) Refresh(ctx context.Context, principal *entity.User) (*valueobject.TokenPair, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}

	pair, err := uc.issuer.IssuePair(principal.Email)
	if err != nil {
		return nil, domainerr.ErrInternalServerError("failed to issue tokens", err)
	}

	uc.metrics.TokensIssued("refresh")
	logger.LogAuthEvent(ctx, uc.logger, "refresh", principal.ID, "", true, nil)
	return pair, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, principal *entity.User) (*inbound.MeResponse, error) {
	if principal == nil {
		return nil, domainerr.ErrPrincipalNotFound
	}
	return inbound.NewMeResponse(principal), nil
}

func (uc *AuthUseCase) loginFailed(ctx context.Context, throttleKey, ip string) error {
	uc.metrics.LoginAttempt("credentials_invalid")
	logger.LogAuthEvent(ctx, uc.logger, "login", "", ip, false, nil)

	if throttleKey == "" || uc.throttle.MaxAttempts <= 0 {
		return domainerr.ErrCredentialsInvalid
	}

	if err := uc.rateLimit.Increment(ctx, throttleKey, uc.throttle.Window); err != nil {
		uc.logger.Warn(ctx, "Failed to count login failure", map[string]interface{}{"error": err.Error()})
		return domainerr.ErrCredentialsInvalid
	}

	allowed, err := uc.rateLimit.CheckLimit(ctx, throttleKey, uc.throttle.MaxAttempts, uc.throttle.Window)
	if err == nil && !allowed {
		if err := uc.rateLimit.Block(ctx, throttleKey, uc.throttle.BlockDuration, "too many failed logins"); err != nil {
			uc.logger.Warn(ctx, "Failed to block client", map[string]interface{}{"error": err.Error()})
		}
		logger.LogSecurityEvent(ctx, uc.logger, "login_blocked", "HIGH", map[string]interface{}{"ip": ip})
	}

	return domainerr.ErrCredentialsInvalid
}

func (uc *AuthUseCase) isBlocked(ctx context.Context, key string) bool {
	blocked, err := uc.rateLimit.IsBlocked(ctx, key)
	if err != nil {
		uc.logger.Warn(ctx, "Failed to check login block", map[string]interface{}{"error": err.Error()})
		return false
	}
	return blocked
}

func (uc *AuthUseCase) compareDummy(password string) {
	uc.dummyOnce.Do(func() {
		hash, err := uc.passwords.HashPassword(dummyPassword)
		if err == nil {
			uc.dummyHash = hash
		}
	})
	if uc.dummyHash != "" {
		_, _ = uc.passwords.VerifyPassword(password, uc.dummyHash)
	}
}
