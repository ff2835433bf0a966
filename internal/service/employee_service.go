package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/employee-registry-api/internal/domain"
	"github.com/employee-registry-api/internal/repository"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Add(ctx context.Context, in AddEmployeeInput) (*domain.Result, error)
	Get(ctx context.Context, id int64) (*domain.Result, error)
	Page(ctx context.Context, page, limit int64) (*domain.Result, error)
	List(ctx context.Context, ids domain.IDSet) (*domain.Result, error)
	PossibleSupervisors(ctx context.Context, excludeID int64) (*domain.Result, error)
	Subordinates(ctx context.Context, id int64) (*domain.Result, error)
	Modify(ctx context.Context, in ModifyEmployeeInput) (*domain.Result, error)
	Delete(ctx context.Context, id int64) error
	Total(ctx context.Context) (int64, error)
	Ready(ctx context.Context) error
}

// AddEmployeeInput - проверенные данные нового сотрудника
type AddEmployeeInput struct {
	FirstName    string
	LastName     string
	Position     string
	SupervisorID *int64
}

// ModifyEmployeeInput - проверенные данные изменения сотрудника.
// Created и Version необязательны; если переданы, они должны совпасть с сохранёнными
type ModifyEmployeeInput struct {
	ID           int64
	FirstName    string
	LastName     string
	Position     string
	SupervisorID *int64
	Subordinates domain.IDSet
	Created      *time.Time
	Version      *int64
}

// Clock возвращает текущее время
type Clock func() time.Time

// Option настраивает сервис
type Option func(*employeeService)

// WithClock подменяет источник времени
func WithClock(clock Clock) Option {
	return func(s *employeeService) {
		s.now = clock
	}
}

type employeeService struct {
	empRepo repository.EmployeeRepository
	tx      repository.TxManager
	now     Clock
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, tx repository.TxManager, opts ...Option) EmployeeService {
	s := &employeeService{
		empRepo: empRepo,
		tx:      tx,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Second)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add сохраняет нового сотрудника. Существование руководителя не проверяется
func (s *employeeService) Add(ctx context.Context, in AddEmployeeInput) (*domain.Result, error) {
	emp := &domain.Employee{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Position:     in.Position,
		SupervisorID: in.SupervisorID,
		Subordinates: domain.NewIDSet(),
		Version:      1,
		CreatedAt:    s.now(),
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("add employee: %w", err)
	}

	return s.result(ctx, *emp)
}

func (s *employeeService) Get(ctx context.Context, id int64) (*domain.Result, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.result(ctx, *emp)
}

// Page возвращает срез сотрудников по возрастанию id, offset = page * limit
func (s *employeeService) Page(ctx context.Context, page, limit int64) (*domain.Result, error) {
	if limit == 0 || page > math.MaxInt64/limit {
		return s.result(ctx)
	}

	employees, err := s.empRepo.GetPage(ctx, page*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return s.result(ctx, employees...)
}

// List возвращает найденных сотрудников; отсутствующие id пропускаются
func (s *employeeService) List(ctx context.Context, ids domain.IDSet) (*domain.Result, error) {
	employees, err := s.empRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return s.result(ctx, employees...)
}

// PossibleSupervisors исключает самого сотрудника, его прямых подчинённых
// и всех, кто перечислен в его списке подчинённых
func (s *employeeService) PossibleSupervisors(ctx context.Context, excludeID int64) (*domain.Result, error) {
	all, err := s.empRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}

	var listed domain.IDSet
	for i := range all {
		if all[i].ID == excludeID {
			listed = all[i].Subordinates
			break
		}
	}

	candidates := make([]domain.Employee, 0, len(all))
	for _, emp := range all {
		if emp.ID == excludeID || emp.SupervisedBy(excludeID) || listed.Contains(emp.ID) {
			continue
		}
		candidates = append(candidates, emp)
	}

	if len(candidates) == 0 {
		return nil, domain.ErrEmployeeNotFound
	}
	return s.result(ctx, candidates...)
}

// Subordinates объединяет тех, у кого руководитель id, и сохранённый список подчинённых
func (s *employeeService) Subordinates(ctx context.Context, id int64) (*domain.Result, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	direct, err := s.empRepo.GetBySupervisor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get by supervisor: %w", err)
	}

	listed, err := s.empRepo.GetByIDs(ctx, emp.Subordinates)
	if err != nil {
		return nil, fmt.Errorf("get listed subordinates: %w", err)
	}

	merged := append(direct, listed...)
	slices.SortFunc(merged, func(a, b domain.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})
	merged = slices.CompactFunc(merged, func(a, b domain.Employee) bool {
		return a.ID == b.ID
	})

	return s.result(ctx, merged...)
}

// Modify применяет к сохранённому сотруднику только отличающиеся поля
func (s *employeeService) Modify(ctx context.Context, in ModifyEmployeeInput) (*domain.Result, error) {
	if err := checkRelations(in.ID, in.SupervisorID, in.Subordinates); err != nil {
		return nil, err
	}

	var updated domain.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.empRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}

		if in.Created != nil && !in.Created.Equal(stored.CreatedAt) {
			return domain.ErrStaleWrite
		}
		if in.Version != nil && *in.Version != stored.Version {
			return domain.ErrStaleWrite
		}

		next, changed := applyChanges(*stored, in)
		if !changed {
			return domain.ErrNoChanges
		}

		next.Version = stored.Version + 1
		if err := s.empRepo.Update(ctx, &next, stored.Version); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.result(ctx, updated)
}

// Delete удаляет сотрудника; отсутствующий id возвращает ErrEmployeeNotFound
func (s *employeeService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.empRepo.GetByID(ctx, id); err != nil {
			return err
		}
		return s.empRepo.Delete(ctx, id)
	})
}

func (s *employeeService) Total(ctx context.Context) (int64, error) {
	return s.empRepo.Count(ctx)
}

// Ready проверяет доступность хранилища
func (s *employeeService) Ready(ctx context.Context) error {
	return s.empRepo.Ping(ctx)
}

// result собирает конверт и подгружает руководителей для отображаемых имён
func (s *employeeService) result(ctx context.Context, employees ...domain.Employee) (*domain.Result, error) {
	res := &domain.Result{
		Employees:   make([]domain.Employee, 0, len(employees)),
		Supervisors: make(map[int64]domain.Employee),
	}
	res.Employees = append(res.Employees, employees...)

	supervisorIDs := make([]int64, 0, len(employees))
	for _, emp := range employees {
		if emp.SupervisorID != nil {
			supervisorIDs = append(supervisorIDs, *emp.SupervisorID)
		}
	}
	if len(supervisorIDs) == 0 {
		return res, nil
	}

	supervisors, err := s.empRepo.GetByIDs(ctx, domain.NewIDSet(supervisorIDs...))
	if err != nil {
		return nil, fmt.Errorf("resolve supervisors: %w", err)
	}
	for _, sup := range supervisors {
		res.Supervisors[sup.ID] = sup
	}

	return res, nil
}

func checkRelations(id int64, supervisorID *int64, subordinates domain.IDSet) error {
	switch {
	case supervisorID != nil && *supervisorID == id:
		return domain.ErrSelfSupervision
	case subordinates.Contains(id):
		return domain.ErrEmployeeInSubordinates
	case supervisorID != nil && subordinates.Contains(*supervisorID):
		return domain.ErrSupervisorInSubordinates
	}
	return nil
}

func applyChanges(emp domain.Employee, in ModifyEmployeeInput) (domain.Employee, bool) {
	changed := false

	if !sameID(emp.SupervisorID, in.SupervisorID) {
		emp.SupervisorID = in.SupervisorID
		changed = true
	}
	if emp.Position != in.Position {
		emp.Position = in.Position
		changed = true
	}
	if emp.FirstName != in.FirstName {
		emp.FirstName = in.FirstName
		changed = true
	}
	if emp.LastName != in.LastName {
		emp.LastName = in.LastName
		changed = true
	}

	subordinates := domain.NewIDSet(in.Subordinates...)
	if !emp.Subordinates.Equal(subordinates) {
		changed = true
	}
	emp.Subordinates = subordinates

	return emp, changed
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
