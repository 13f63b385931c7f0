package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/geniotutoring/studenttrack/core/student"
)

type studentGateway struct {
	c *Client
}

var _ student.Gateway = (*studentGateway)(nil) // interface compliance check

func NewStudentGateway(c *Client) student.Gateway {
	return &studentGateway{c: c}
}

func (gw *studentGateway) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := gw.c.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (gw *studentGateway) GetStudent(ctx context.Context, id int) (student.Student, error) {
	var st student.Student
	if err := gw.c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d", id), nil, &st); err != nil {
		if IsNotFound(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return st, nil
}

func (gw *studentGateway) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var st student.Student
	if err := gw.c.do(ctx, http.MethodPost, "/students", ns, &st); err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (gw *studentGateway) UpdateStudent(ctx context.Context, id int, us student.UpdateStudent) (student.Student, error) {
	var st student.Student
	if err := gw.c.do(ctx, http.MethodPatch, fmt.Sprintf("/students/%d", id), us, &st); err != nil {
		if IsNotFound(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return st, nil
}

func (gw *studentGateway) DeleteStudent(ctx context.Context, id int) error {
	err := gw.c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil)
	if IsNotFound(err) {
		return student.ErrNotFound
	}
	return err
}

func (gw *studentGateway) AddPayment(ctx context.Context, studentID int, np student.NewPayment) (student.Payment, error) {
	var p student.Payment
	if err := gw.c.do(ctx, http.MethodPost, fmt.Sprintf("/students/%d/payments", studentID), np, &p); err != nil {
		return student.Payment{}, err
	}
	return p, nil
}

func (gw *studentGateway) DeletePayment(ctx context.Context, studentID, paymentID int) error {
	return gw.c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d/payments/%d", studentID, paymentID), nil, nil)
}

func (gw *studentGateway) GetPaymentStatus(ctx context.Context, studentID int) (student.PaymentStatus, error) {
	var ps student.PaymentStatus
	if err := gw.c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d/payment_status", studentID), nil, &ps); err != nil {
		if IsNotFound(err) {
			return student.PaymentStatus{}, student.ErrNotFound
		}
		return student.PaymentStatus{}, err
	}
	return ps, nil
}
