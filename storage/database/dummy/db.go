package dummydb

import (
	"sync"

	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

// DB is an in-memory store with the same repository surface as the SQL
// implementation, for tests and local tinkering.
type (
	DB struct {
		user       *userTable
		school     *schoolTable
		student    *studentTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		school:     &schoolTable{table: make(map[string]*school.School)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
	}
	return db, nil
}
