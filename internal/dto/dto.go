package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/employee-registry-api/internal/domain"
)

// TimeLayout - формат поля created во входящих и исходящих json
const TimeLayout = "2006-01-02 15:04:05"

// Param - строковое значение, которое клиент может прислать строкой, числом или массивом
type Param string

func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Param(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var elem Param
			if err := elem.UnmarshalJSON(item); err != nil {
				return err
			}
			parts = append(parts, string(elem))
		}
		*p = Param(strings.Join(parts, ","))
	case '{':
		return fmt.Errorf("unexpected json object %s", data)
	default:
		*p = Param(data)
	}
	return nil
}

func (p Param) String() string {
	return string(p)
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	FirstName  string `json:"firstName" validate:"notblank"`
	LastName   string `json:"lastName" validate:"notblank"`
	Position   string `json:"position"`
	Supervisor Param  `json:"supervisor"`
}

// UpdateEmployeeRequest - запрос на изменение сотрудника
type UpdateEmployeeRequest struct {
	ID           Param  `json:"id"`
	FirstName    string `json:"firstName" validate:"notblank"`
	LastName     string `json:"lastName" validate:"notblank"`
	Position     string `json:"position"`
	Supervisor   Param  `json:"supervisor"`
	Subordinates Param  `json:"subordinates"`
	Created      string `json:"created" validate:"omitempty,datetime=2006-01-02 15:04:05"`
	Version      Param  `json:"version"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID                 string  `json:"id"`
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Position           string  `json:"position"`
	Created            string  `json:"created"`
	Version            int64   `json:"version"`
	FullName           string  `json:"fullName"`
	Supervisor         string  `json:"supervisor"`
	SupervisorFullName string  `json:"supervisorFullName"`
	Subordinates       []int64 `json:"subordinates"`
}

// NewEmployeeResponse собирает ответ; supervisor может быть nil, если руководитель не найден
func NewEmployeeResponse(emp *domain.Employee, supervisor *domain.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           strconv.FormatInt(emp.ID, 10),
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Position:     emp.Position,
		Created:      FormatTime(emp.CreatedAt),
		Version:      emp.Version,
		FullName:     emp.FullName(),
		Subordinates: append([]int64{}, emp.Subordinates...),
	}

	if emp.SupervisorID != nil {
		resp.Supervisor = strconv.FormatInt(*emp.SupervisorID, 10)
	}
	if supervisor != nil {
		resp.SupervisorFullName = supervisor.FullName()
	}

	return resp
}

// ResultResponse - успешный ответ со списком сотрудников или сообщением
type ResultResponse struct {
	Result any `json:"result"`
}

// CreatedResponse - ответ на создание сотрудника
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// TotalResponse - ответ с количеством сотрудников
type TotalResponse struct {
	Total int64 `json:"total"`
}

// ErrorResponse - стандартный ответ с ошибками
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// FormatTime приводит время к формату ответа в UTC
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime разбирает время в формате ответа как UTC
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}
