// Package dummygw is an in-memory stand-in for the backend API, used by
// tests and offline development. It derives payment status the way the
// backend does: pending = sum of the member's group costs - total paid.
package dummygw

import (
	"sync"
	"time"

	"github.com/geniotutoring/studenttrack/core/student"
)

type (
	DB struct {
		sync.RWMutex
		groups   map[int]*groupRow
		students map[int]*studentRow

		groupPK   int
		studentPK int
		paymentPK int
	}

	groupRow struct {
		id         int
		title      string
		cost       int
		studentIDs []int
	}

	studentRow struct {
		id       int
		name     string
		phone    string
		payments []student.Payment
	}
)

func Open() (*DB, error) {
	return &DB{
		groups:   make(map[int]*groupRow),
		students: make(map[int]*studentRow),
	}, nil
}

// NowFunc stamps new payments; mockable.
var NowFunc = time.Now

func (db *DB) groupsOf(studentID int) []*groupRow {
	var rows []*groupRow
	for _, g := range db.groups {
		for _, id := range g.studentIDs {
			if id == studentID {
				rows = append(rows, g)
				break
			}
		}
	}
	return rows
}

// status computes the derived payment fields for a student.
func (db *DB) status(row *studentRow) (status string, paid, pending float64) {
	var owed float64
	for _, g := range db.groupsOf(row.id) {
		owed += float64(g.cost)
	}
	for _, p := range row.payments {
		paid += p.Amount
	}
	pending = owed - paid
	if pending <= 0 {
		pending = 0
		return student.StatusPaid, paid, pending
	}
	return student.StatusPending, paid, pending
}

func (db *DB) buildStudent(row *studentRow) student.Student {
	status, paid, _ := db.status(row)
	st := student.Student{
		ID:                row.id,
		Name:              row.name,
		ParentPhoneNumber: row.phone,
		Status:            status,
		PaidAmount:        paid,
	}
	for _, g := range db.groupsOf(row.id) {
		st.Groups = append(st.Groups, student.GroupRef{ID: g.id, Title: g.title, Cost: g.cost})
	}
	st.Payments = append(st.Payments, row.payments...)
	return st
}
