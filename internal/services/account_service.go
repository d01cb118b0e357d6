package services

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/pkg/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionRevoked     = errors.New("session has been signed out")
)

const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

var accountValidator = newAccountValidator()

func newAccountValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"required,mobile"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

var registerMessages = map[string]string{
	"email":            "Invalid email format",
	"phone_number":     "Phone number must be 10 digits starting with 6-9",
	"password":         "Password must be at least 8 characters",
	"confirm_password": "Passwords do not match",
}

// Validate reports the first failing field as a ValidationError.
func (in *RegisterInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	err := accountValidator.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := jsonFieldName(fieldErrs[0].Field())
		if fieldErrs[0].Tag() == "required" {
			return models.Required(field)
		}
		return models.NewValidationError(field, registerMessages[field])
	}
	return err
}

func jsonFieldName(structField string) string {
	switch structField {
	case "PhoneNumber":
		return "phone_number"
	case "ConfirmPassword":
		return "confirm_password"
	default:
		return strings.ToLower(structField)
	}
}

type accountCreator interface {
	CreateWithProfile(ctx context.Context, user *models.User) error
}

type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, remaining time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionNotifier receives change-of-session events.
type SessionNotifier interface {
	NotifySession(userID int64, state string)
}

type AccountService struct {
	accounts  accountCreator
	users     userLookup
	profiles  profileReader
	revoked   tokenRevoker
	notifier  SessionNotifier
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAccountService(
	accounts accountCreator,
	users userLookup,
	profiles profileReader,
	revoked tokenRevoker,
	notifier SessionNotifier,
	jwtSecret string,
	tokenTTL time.Duration,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = utils.DefaultTokenTTL
	}
	return &AccountService{
		accounts:  accounts,
		users:     users,
		profiles:  profiles,
		revoked:   revoked,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func normalizeEmail(raw string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", models.NewValidationError("email", "Invalid email format")
	}
	return strings.ToLower(parsed.Address), nil
}

// Register creates the identity and its empty profile, then signs the new user in.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, backendError("check email", err)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PhoneNumber: input.PhoneNumber, PasswordHash: hashed}
	if err := s.accounts.CreateWithProfile(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, backendError("create account", err)
	}

	return s.openSession(user)
}

func (s *AccountService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, models.Required("password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, backendError("lookup user", err)
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(user)
}

func (s *AccountService) openSession(user *models.User) (*Session, error) {
	token, err := utils.GenerateTokenWithTTL(strconv.FormatInt(user.ID, 10), user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	s.notify(user.ID, SessionSignedIn)
	return &Session{Token: token, User: user}, nil
}

// Authenticate validates a bearer token and rejects signed-out sessions.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			return nil, backendError("check session", err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}
	return claims, nil
}

// SignOut revokes the token until it would expire and tells open connections.
func (s *AccountService) SignOut(ctx context.Context, claims *utils.Claims) error {
	if s.revoked != nil {
		if err := s.revoked.Revoke(ctx, claims.TokenID(), claims.Remaining(time.Now())); err != nil {
			return backendError("revoke session", err)
		}
	}
	if userID, err := strconv.ParseInt(claims.UserID, 10, 64); err == nil {
		s.notify(userID, SessionSignedOut)
	}
	return nil
}

func (s *AccountService) notify(userID int64, state string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifySession(userID, state)
}

// CurrentUser returns the identity and its profile. A missing profile is not an error.
func (s *AccountService) CurrentUser(ctx context.Context, userID int64) (*models.User, *models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, backendError("load user", err)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.WithField("user_id", userID).Warn("user has no profile row")
			return user, nil, nil
		}
		return nil, nil, backendError("load profile", err)
	}
	return user, profile, nil
}
