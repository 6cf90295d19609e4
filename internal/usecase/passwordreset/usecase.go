package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"agrifin-backend/internal/domain/passwordreset"
	"agrifin-backend/internal/domain/uow"
	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/mailer"
	"agrifin-backend/pkg/id"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrTokenRequired = errors.New("token is required")
)

const MailSubject = "AgriFinConnect Rwanda: reset your password"

type Delivery string

const (
	DeliveryNone   Delivery = "none" // no account, nothing sent
	DeliverySent   Delivery = "sent"
	DeliveryFailed Delivery = "failed"
)

// RequestResult separates issuing the token from notifying the user.
// A failed delivery never fails the request.
type RequestResult struct {
	TokenIssued bool
	ResetURL    string
	Delivery    Delivery
	DeliveryErr error
}

type Config struct {
	FrontendURL string
	From        string
}

type Usecase struct {
	users  user.Repository
	resets passwordreset.Repository
	uow    uow.UnitOfWork
	mail   mailer.Mailer
	hash   func(string) (string, error)
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
}

// NewUsecase: hash validates and hashes the new password.
func NewUsecase(users user.Repository, resets passwordreset.Repository, tx uow.UnitOfWork, mail mailer.Mailer,
	hash func(string) (string, error), cfg Config, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, resets: resets, uow: tx, mail: mail, hash: hash, cfg: cfg, log: log, now: time.Now}
}

func (u *Usecase) SetClock(now func() time.Time) { u.now = now }

// ResetURL renders the frontend link carrying token.
func (u *Usecase) ResetURL(token string) string {
	return strings.TrimRight(u.cfg.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// RequestPasswordReset issues a fresh single-use token for the account
// matching email, replacing any earlier one, and mails the link. Unknown
// emails return an empty result and no error.
func (u *Usecase) RequestPasswordReset(ctx context.Context, email string) (*RequestResult, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	log := logging.FromContext(ctx, u.log)

	usr, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RequestResult{Delivery: DeliveryNone}, nil
	}
	if err != nil {
		return nil, err
	}

	secret := id.NewToken()
	if err := u.resets.Replace(ctx, passwordreset.NewToken(usr.ID, secret, u.now())); err != nil {
		return nil, err
	}
	res := &RequestResult{TokenIssued: true, ResetURL: u.ResetURL(secret), Delivery: DeliverySent}

	msg := mailer.Message{
		From:    u.cfg.From,
		To:      usr.Email,
		Subject: MailSubject,
		Body: fmt.Sprintf("Hello,\n\nYou asked to reset your AgriFinConnect Rwanda password. "+
			"Open this link within %d minutes to choose a new one:\n\n%s\n\n"+
			"If you did not ask for this, you can ignore this email.\n",
			int(passwordreset.TTL.Minutes()), res.ResetURL),
	}
	if err := u.mail.Send(ctx, msg); err != nil {
		res.Delivery = DeliveryFailed
		res.DeliveryErr = err
		log.Warn("password reset mail not delivered",
			zap.String("to", logging.MaskEmail(usr.Email)), zap.Error(err))
	}
	return res, nil
}

// ResetPassword consumes token and sets the new password in one
// transaction. Wrong and expired tokens both yield
// passwordreset.ErrInvalidToken.
func (u *Usecase) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	hash, err := u.hash(password)
	if err != nil {
		return err
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.ResetTokens.Consume(ctx, token, u.now())
		if err != nil {
			return err
		}
		if err := r.Users.UpdatePassword(ctx, t.UserID, hash); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return passwordreset.ErrInvalidToken
			}
			return err
		}
		return nil
	})
}
