package student

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/geniotutoring/studenttrack/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// minimum similarity for a fuzzy search hit
	searchMinRatio = 0.5
)

type (
	// Gateway is the remote contract for the students resource. Implementations
	// attach the bearer credential themselves and never retry.
	Gateway interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		UpdateStudent(ctx context.Context, id int, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, id int) error
		AddPayment(ctx context.Context, studentID int, np NewPayment) (Payment, error)
		DeletePayment(ctx context.Context, studentID, paymentID int) error
		GetPaymentStatus(ctx context.Context, studentID int) (PaymentStatus, error)
	}

	Service struct {
		gw Gateway
	}
)

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.gw.QueryAllStudents(ctx)
}

func (svc *Service) Get(ctx context.Context, id int) (Student, error) {
	return svc.gw.GetStudent(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	return svc.gw.CreateStudent(ctx, ns)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	if err := us.Validate(); err != nil {
		return Student{}, err
	}
	return svc.gw.UpdateStudent(ctx, id, us)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.gw.DeleteStudent(ctx, id)
}

// AddPayment records a payment and re-fetches the full student rather than
// patching locally: the payment status and paid amount are derived
// server-side and may change with the new payment.
func (svc *Service) AddPayment(ctx context.Context, studentID int, np NewPayment) (Student, error) {
	if err := np.Validate(); err != nil {
		return Student{}, err
	}
	if _, err := svc.gw.AddPayment(ctx, studentID, np); err != nil {
		return Student{}, err
	}
	return svc.gw.GetStudent(ctx, studentID)
}

// DeletePayment removes a payment and re-fetches the full student, for the
// same reason as AddPayment.
func (svc *Service) DeletePayment(ctx context.Context, studentID, paymentID int) (Student, error) {
	if err := svc.gw.DeletePayment(ctx, studentID, paymentID); err != nil {
		return Student{}, err
	}
	return svc.gw.GetStudent(ctx, studentID)
}

func (svc *Service) PaymentStatus(ctx context.Context, studentID int) (PaymentStatus, error) {
	return svc.gw.GetPaymentStatus(ctx, studentID)
}

// Search returns students whose name matches `q`, most similar first.
// Substring matches always hit; otherwise a similarity ratio decides.
func (svc *Service) Search(ctx context.Context, q string) ([]Student, error) {
	q = core.CleanString(q, true /* lower */)
	students, err := svc.gw.QueryAllStudents(ctx)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return students, nil
	}

	type hit struct {
		student Student
		ratio   float64
	}
	var hits []hit
	for _, st := range students {
		name := strings.ToLower(st.Name)
		ratio := difflib.NewMatcher(strings.Split(q, ""), strings.Split(name, "")).QuickRatio()
		if strings.Contains(name, q) && ratio < 1 {
			ratio = 1
		}
		if ratio >= searchMinRatio {
			hits = append(hits, hit{st, ratio})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })

	matched := make([]Student, 0, len(hits))
	for _, h := range hits {
		matched = append(matched, h.student)
	}
	return matched, nil
}
