package domain

import (
	"fmt"
	"slices"
	"time"
)

// Employee представляет сотрудника
type Employee struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(200);not null"`
	LastName     string    `json:"last_name" gorm:"type:varchar(200);not null"`
	Position     string    `json:"position" gorm:"type:varchar(200);not null"`
	SupervisorID *int64    `json:"supervisor_id" gorm:"index"`
	Subordinates IDSet     `json:"subordinates" gorm:"type:text;serializer:json"`
	Version      int64     `json:"version" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// FullName возвращает отображаемое имя вида "First Last (id)"
func (e *Employee) FullName() string {
	return fmt.Sprintf("%s %s (%d)", e.FirstName, e.LastName, e.ID)
}

// SupervisedBy сообщает, указан ли id руководителем сотрудника
func (e *Employee) SupervisedBy(id int64) bool {
	return e.SupervisorID != nil && *e.SupervisorID == id
}

// IDSet - отсортированное множество идентификаторов без повторов
type IDSet []int64

// NewIDSet строит множество из произвольного набора идентификаторов
func NewIDSet(ids ...int64) IDSet {
	set := make(IDSet, 0, len(ids))
	set = append(set, ids...)
	slices.Sort(set)
	return slices.Compact(set)
}

func (s IDSet) Contains(id int64) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// Equal считает nil и пустое множество равными
func (s IDSet) Equal(other IDSet) bool {
	return slices.Equal(NewIDSet(s...), NewIDSet(other...))
}

// Result - единый конверт результата бизнес-операции
type Result struct {
	Employees   []Employee
	Supervisors map[int64]Employee
}

// First возвращает первый сотрудник результата
func (r *Result) First() (*Employee, bool) {
	if r == nil || len(r.Employees) == 0 {
		return nil, false
	}
	return &r.Employees[0], true
}

// SupervisorOf возвращает руководителя сотрудника, если он найден в хранилище
func (r *Result) SupervisorOf(e *Employee) (*Employee, bool) {
	if r == nil || e.SupervisorID == nil {
		return nil, false
	}
	sup, ok := r.Supervisors[*e.SupervisorID]
	if !ok {
		return nil, false
	}
	return &sup, true
}
