package membershipsvc

import (
	"context"
	"errors"
	"time"

	"librarian/model"
	membershiprepo "librarian/repository/membership"
)

type ErrCode string

const (
	ErrNoMembership ErrCode = "NO_MEMBERSHIP_RECORD"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// View is the membership with its derived status.
type View struct {
	Status    model.MembershipStatus `json:"status"`
	AutoRenew bool                   `json:"auto_renew"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	Charged   bool                   `json:"charged,omitempty"`
}

type Repo interface {
	Get(ctx context.Context, userID int64) (*model.Membership, error)
	Signup(ctx context.Context, userID int64, fee float64) (*model.Membership, error)
	Renew(ctx context.Context, userID int64, fee float64) (*model.Membership, bool, error)
	Cancel(ctx context.Context, userID int64) error
	ListPayments(ctx context.Context, userID int64) ([]model.MembershipPayment, error)
}

type Service interface {
	// Signup charges the fee and opens a one-month window.
	Signup(ctx context.Context, userID int64) (*View, error)

	// Cancel flips auto_renew off; access runs until expires_at.
	Cancel(ctx context.Context, userID int64) (*View, error)

	// Renew re-charges only if expired; otherwise re-enables auto_renew.
	Renew(ctx context.Context, userID int64) (*View, error)

	Get(ctx context.Context, userID int64) (*View, error)
	Payments(ctx context.Context, userID int64) ([]model.MembershipPayment, error)
}

type service struct {
	r   Repo
	fee float64
}

func New(r Repo, fee float64) Service { return &service{r: r, fee: fee} }

func view(m *model.Membership, charged bool) *View {
	v := &View{Status: m.StatusAt(time.Now().UTC()), Charged: charged}
	if m != nil {
		v.AutoRenew = m.AutoRenew
		v.ExpiresAt = &m.ExpiresAt
	}
	return v
}

func (s *service) Signup(ctx context.Context, userID int64) (*View, error) {
	m, err := s.r.Signup(ctx, userID, s.fee)
	if err != nil {
		return nil, err
	}
	return view(m, true), nil
}

func (s *service) Cancel(ctx context.Context, userID int64) (*View, error) {
	if err := s.r.Cancel(ctx, userID); err != nil {
		if errors.Is(err, membershiprepo.ErrNoMembership) {
			return nil, makeErr(ErrNoMembership)
		}
		return nil, err
	}
	m, err := s.r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(m, false), nil
}

func (s *service) Renew(ctx context.Context, userID int64) (*View, error) {
	m, charged, err := s.r.Renew(ctx, userID, s.fee)
	if err != nil {
		if errors.Is(err, membershiprepo.ErrNoMembership) {
			return nil, makeErr(ErrNoMembership)
		}
		return nil, err
	}
	return view(m, charged), nil
}

func (s *service) Get(ctx context.Context, userID int64) (*View, error) {
	m, err := s.r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(m, false), nil
}

func (s *service) Payments(ctx context.Context, userID int64) ([]model.MembershipPayment, error) {
	return s.r.ListPayments(ctx, userID)
}
