package student

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway lets each test script the remote behavior per method.
type stubGateway struct {
	getFn    func(id int) (Student, error)
	queryFn  func() ([]Student, error)
	updateFn func(id int, us UpdateStudent) (Student, error)
	payFn    func(studentID int, np NewPayment) (Payment, error)

	payments        []NewPayment
	deletedPayments []int
}

var _ Gateway = (*stubGateway)(nil)

func (s *stubGateway) QueryAllStudents(context.Context) ([]Student, error) {
	if s.queryFn != nil {
		return s.queryFn()
	}
	return nil, nil
}

func (s *stubGateway) GetStudent(_ context.Context, id int) (Student, error) {
	if s.getFn != nil {
		return s.getFn(id)
	}
	return Student{}, ErrNotFound
}

func (s *stubGateway) CreateStudent(_ context.Context, _ NewStudent) (Student, error) {
	return Student{}, nil
}

func (s *stubGateway) UpdateStudent(_ context.Context, id int, us UpdateStudent) (Student, error) {
	if s.updateFn != nil {
		return s.updateFn(id, us)
	}
	return Student{}, nil
}

func (s *stubGateway) DeleteStudent(context.Context, int) error { return nil }

func (s *stubGateway) AddPayment(_ context.Context, studentID int, np NewPayment) (Payment, error) {
	s.payments = append(s.payments, np)
	if s.payFn != nil {
		return s.payFn(studentID, np)
	}
	return Payment{ID: 1, Amount: np.Amount}, nil
}

func (s *stubGateway) DeletePayment(_ context.Context, _, paymentID int) error {
	s.deletedPayments = append(s.deletedPayments, paymentID)
	return nil
}

func (s *stubGateway) GetPaymentStatus(context.Context, int) (PaymentStatus, error) {
	return PaymentStatus{}, nil
}

func TestServiceAddPaymentRefetches(t *testing.T) {
	gw := &stubGateway{
		getFn: func(id int) (Student, error) {
			return Student{
				ID:         id,
				Name:       "Amine",
				Status:     StatusPaid,
				PaidAmount: 150,
				Payments:   []Payment{{ID: 1, Amount: 150}},
			}, nil
		},
	}
	svc := NewService(gw)

	st, err := svc.AddPayment(context.Background(), 3, NewPayment{Amount: 150})
	if err != nil {
		t.Fatalf("AddPayment() failed: %v", err)
	}
	require.Len(t, gw.payments, 1)
	assert.Equal(t, 150.0, gw.payments[0].Amount)
	// derived fields come from the re-fetch, not a local patch
	assert.Equal(t, StatusPaid, st.Status)
	assert.Equal(t, 150.0, st.PaidAmount)
	require.Len(t, st.Payments, 1)
}

func TestServiceAddPaymentValidates(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw)

	tests := []struct {
		name   string
		amount float64
	}{
		{"zero", 0},
		{"negative", -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddPayment(context.Background(), 3, NewPayment{Amount: tt.amount})
			assert.Error(t, err)
		})
	}
	assert.Empty(t, gw.payments, "invalid payments never reach the backend")
}

func TestServiceAddPaymentFailure(t *testing.T) {
	boom := errors.New("server exploded")
	gw := &stubGateway{
		payFn: func(int, NewPayment) (Payment, error) { return Payment{}, boom },
	}
	svc := NewService(gw)

	_, err := svc.AddPayment(context.Background(), 3, NewPayment{Amount: 150})
	assert.Equal(t, boom, err)
}

func TestServiceDeletePaymentRefetches(t *testing.T) {
	gw := &stubGateway{
		getFn: func(id int) (Student, error) {
			return Student{ID: id, Status: StatusPending}, nil
		},
	}
	svc := NewService(gw)

	st, err := svc.DeletePayment(context.Background(), 3, 9)
	if err != nil {
		t.Fatalf("DeletePayment() failed: %v", err)
	}
	assert.Equal(t, []int{9}, gw.deletedPayments)
	assert.Equal(t, StatusPending, st.Status)
}

func TestServiceSearch(t *testing.T) {
	roster := []Student{
		{ID: 1, Name: "Amine Benali"},
		{ID: 2, Name: "Sara Amrani"},
		{ID: 3, Name: "Youssef Kadiri"},
	}
	gw := &stubGateway{queryFn: func() ([]Student, error) { return roster, nil }}
	svc := NewService(gw)
	ctx := context.Background()

	t.Run("substring hits rank first", func(t *testing.T) {
		matched, err := svc.Search(ctx, "amine")
		if err != nil {
			t.Fatalf("Search() failed: %v", err)
		}
		require.NotEmpty(t, matched)
		assert.Equal(t, 1, matched[0].ID)
	})

	t.Run("case and spacing are normalized", func(t *testing.T) {
		matched, err := svc.Search(ctx, "  AMRANI ")
		if err != nil {
			t.Fatalf("Search() failed: %v", err)
		}
		require.NotEmpty(t, matched)
		assert.Equal(t, 2, matched[0].ID)
	})

	t.Run("empty query returns everyone", func(t *testing.T) {
		matched, err := svc.Search(ctx, "")
		if err != nil {
			t.Fatalf("Search() failed: %v", err)
		}
		assert.Len(t, matched, len(roster))
	})

	t.Run("gibberish matches nothing", func(t *testing.T) {
		matched, err := svc.Search(ctx, "zzzzqqqq")
		if err != nil {
			t.Fatalf("Search() failed: %v", err)
		}
		assert.Empty(t, matched)
	})
}
