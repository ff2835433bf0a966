package repository

import (
	"context"
	"fmt"

	"github.com/employee-registry-api/internal/domain"
	"gorm.io/gorm"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByIDs(ctx context.Context, ids domain.IDSet) ([]domain.Employee, error)
	GetPage(ctx context.Context, offset, limit int64) ([]domain.Employee, error)
	GetAll(ctx context.Context) ([]domain.Employee, error)
	GetBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee, expectedVersion int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return translateError(conn(ctx, r.db).Create(emp).Error)
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := conn(ctx, r.db).First(&emp, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &emp, nil
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids domain.IDSet) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	err := conn(ctx, r.db).
		Where("id IN ?", []int64(ids)).
		Order("id ASC").
		Find(&employees).Error
	return employees, translateError(err)
}

func (r *employeeRepository) GetPage(ctx context.Context, offset, limit int64) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	err := conn(ctx, r.db).
		Order("id ASC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&employees).Error
	return employees, translateError(err)
}

func (r *employeeRepository) GetAll(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := conn(ctx, r.db).Order("id ASC").Find(&employees).Error
	return employees, translateError(err)
}

func (r *employeeRepository) GetBySupervisor(ctx context.Context, supervisorID int64) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := conn(ctx, r.db).
		Where("supervisor_id = ?", supervisorID).
		Order("id ASC").
		Find(&employees).Error
	return employees, translateError(err)
}

// Update сохраняет изменения, только если версия в хранилище совпадает с ожидаемой
func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee, expectedVersion int64) error {
	result := conn(ctx, r.db).
		Model(&domain.Employee{}).
		Where("id = ? AND version = ?", emp.ID, expectedVersion).
		Select("first_name", "last_name", "position", "supervisor_id", "subordinates", "version").
		Updates(emp)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&domain.Employee{}).Count(&total).Error
	return total, translateError(err)
}

// Ping проверяет доступность хранилища
func (r *employeeRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
