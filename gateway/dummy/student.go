package dummygw

import (
	"context"

	"github.com/geniotutoring/studenttrack/core/student"
)

type studentGateway struct {
	db *DB
}

var _ student.Gateway = (*studentGateway)(nil) // interface compliance check

func NewStudentGateway(db *DB) student.Gateway {
	return &studentGateway{db: db}
}

func (gw *studentGateway) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	students := make([]student.Student, 0, len(gw.db.students))
	for _, row := range gw.db.students {
		students = append(students, gw.db.buildStudent(row))
	}
	return students, nil
}

func (gw *studentGateway) GetStudent(_ context.Context, id int) (student.Student, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	if row, ok := gw.db.students[id]; ok {
		return gw.db.buildStudent(row), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (gw *studentGateway) CreateStudent(_ context.Context, ns student.NewStudent) (student.Student, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	gw.db.studentPK++
	row := &studentRow{id: gw.db.studentPK, name: ns.Name, phone: ns.ParentPhoneNumber}
	gw.db.students[row.id] = row
	return gw.db.buildStudent(row), nil
}

func (gw *studentGateway) UpdateStudent(_ context.Context, id int, us student.UpdateStudent) (student.Student, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	// only save set fields
	if us.Name != "" {
		row.name = us.Name
	}
	if us.ParentPhoneNumber != "" {
		row.phone = us.ParentPhoneNumber
	}
	return gw.db.buildStudent(row), nil
}

func (gw *studentGateway) DeleteStudent(_ context.Context, id int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	if _, ok := gw.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(gw.db.students, id)
	for _, g := range gw.db.groups {
		ids := g.studentIDs[:0]
		for _, sid := range g.studentIDs {
			if sid != id {
				ids = append(ids, sid)
			}
		}
		g.studentIDs = ids
	}
	return nil
}

func (gw *studentGateway) AddPayment(_ context.Context, studentID int, np student.NewPayment) (student.Payment, error) {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.students[studentID]
	if !ok {
		return student.Payment{}, student.ErrNotFound
	}
	gw.db.paymentPK++
	p := student.Payment{ID: gw.db.paymentPK, Amount: np.Amount, CreatedAt: NowFunc().UTC()}
	row.payments = append(row.payments, p)
	return p, nil
}

func (gw *studentGateway) DeletePayment(_ context.Context, studentID, paymentID int) error {
	gw.db.Lock()
	defer gw.db.Unlock()

	row, ok := gw.db.students[studentID]
	if !ok {
		return student.ErrNotFound
	}
	payments := row.payments[:0]
	for _, p := range row.payments {
		if p.ID != paymentID {
			payments = append(payments, p)
		}
	}
	row.payments = payments
	return nil
}

func (gw *studentGateway) GetPaymentStatus(_ context.Context, studentID int) (student.PaymentStatus, error) {
	gw.db.RLock()
	defer gw.db.RUnlock()

	row, ok := gw.db.students[studentID]
	if !ok {
		return student.PaymentStatus{}, student.ErrNotFound
	}
	status, _, pending := gw.db.status(row)
	return student.PaymentStatus{Status: status, PendingAmount: pending}, nil
}
