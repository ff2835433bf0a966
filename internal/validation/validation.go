package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/employee-registry-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Kind - категория ошибки запроса
type Kind int

const (
	MissingParameter Kind = iota + 1
	InvalidParameter
	RelationalViolation
)

func (k Kind) String() string {
	switch k {
	case MissingParameter:
		return "MissingParameter"
	case InvalidParameter:
		return "InvalidParameter"
	case RelationalViolation:
		return "RelationalViolation"
	default:
		return "Unknown"
	}
}

// Code - машиночитаемый код ошибки, попадающий в ответ клиенту
type Code string

const (
	CodeNoParam              Code = "NO_PARAM"
	CodeNoParamValue         Code = "NO_PARAM_VALUE"
	CodeBadParam             Code = "BAD_PARAM"
	CodeBadBody              Code = "BAD_BODY"
	CodeSupervisorIsEmployee Code = "SUPERVISOR_ID_SAME_WITH_EMPLOYEE_ID"
	CodeEmployeeInSubs       Code = "EMPLOYEE_ID_IN_SUBS"
	CodeSupervisorInSubs     Code = "SUPERVISOR_ID_IN_SUBS"
)

var (
	digitsPattern = regexp.MustCompile(`^\d+$`)
	idSetPattern  = regexp.MustCompile(`^(\d+,?)+$`)
)

// Error описывает одно нарушение в запросе
type Error struct {
	Kind  Kind
	Code  Code
	Field string
	Value string
}

func (e Error) Error() string {
	switch e.Code {
	case CodeNoParam:
		return fmt.Sprintf("%s: parameter %q is required", e.Code, e.Field)
	case CodeNoParamValue:
		return fmt.Sprintf("%s: parameter %q has no value", e.Code, e.Field)
	case CodeBadParam:
		return fmt.Sprintf("%s: parameter %q has invalid value %q", e.Code, e.Field, e.Value)
	case CodeBadBody:
		return fmt.Sprintf("%s: request body is not a valid employee json", e.Code)
	case CodeSupervisorIsEmployee:
		return fmt.Sprintf("%s: supervisor id is the same as employee id", e.Code)
	case CodeEmployeeInSubs:
		return fmt.Sprintf("%s: employee id is listed among its subordinates", e.Code)
	case CodeSupervisorInSubs:
		return fmt.Sprintf("%s: supervisor id is listed among subordinates", e.Code)
	default:
		return string(e.Code)
	}
}

// Errors - накопленный список нарушений одного запроса
type Errors []Error

func (v Errors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Messages возвращает тексты ошибок в порядке обнаружения
func (v Errors) Messages() []string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// Has сообщает, есть ли в списке ошибка с указанным кодом
func (v Errors) Has(code Code) bool {
	for _, err := range v {
		if err.Code == code {
			return true
		}
	}
	return false
}

// Collector накапливает ошибки запроса, не прерывая проверку на первой
type Collector struct {
	errs Errors
}

func (c *Collector) Add(kind Kind, code Code, field, value string) {
	c.errs = append(c.errs, Error{Kind: kind, Code: code, Field: field, Value: value})
}

func (c *Collector) Empty() bool {
	return len(c.errs) == 0
}

func (c *Collector) Errors() Errors {
	return c.errs
}

// Err возвращает nil, если ошибок не накоплено
func (c *Collector) Err() error {
	if c.Empty() {
		return nil
	}
	return c.errs
}

// ID разбирает обязательный числовой идентификатор
func (c *Collector) ID(name, raw string, present bool) (int64, bool) {
	if !present {
		c.Add(MissingParameter, CodeNoParam, name, "")
		return 0, false
	}
	if IsBlank(raw) {
		c.Add(MissingParameter, CodeNoParamValue, name, "")
		return 0, false
	}
	if !IsDigits(raw) {
		c.Add(InvalidParameter, CodeBadParam, name, raw)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.Add(InvalidParameter, CodeBadParam, name, raw)
		return 0, false
	}
	return id, true
}

// IDSet разбирает список идентификаторов через запятую
func (c *Collector) IDSet(name, raw string, present bool) (domain.IDSet, bool) {
	if !present {
		c.Add(MissingParameter, CodeNoParam, name, "")
		return nil, false
	}
	if IsBlank(raw) {
		c.Add(MissingParameter, CodeNoParamValue, name, "")
		return nil, false
	}
	if !idSetPattern.MatchString(raw) {
		c.Add(InvalidParameter, CodeBadParam, name, raw)
		return nil, false
	}
	ids := LenientIDSet(raw)
	if len(ids) == 0 {
		c.Add(MissingParameter, CodeNoParamValue, name, "")
		return nil, false
	}
	return ids, true
}

// Page разбирает параметры постраничной выборки; верхняя граница не ограничена
func (c *Collector) Page(pageName, pageRaw string, pagePresent bool, limitName, limitRaw string, limitPresent bool) (page, limit int64, ok bool) {
	page, pageOK := c.number(pageName, pageRaw, pagePresent)
	limit, limitOK := c.number(limitName, limitRaw, limitPresent)
	return page, limit, pageOK && limitOK
}

func (c *Collector) number(name, raw string, present bool) (int64, bool) {
	if !present || IsBlank(raw) {
		c.Add(MissingParameter, CodeNoParam, name, "")
		return 0, false
	}
	return c.ID(name, raw, true)
}

// OptionalID разбирает необязательный идентификатор; пустое значение означает его отсутствие
func (c *Collector) OptionalID(name, raw string) (*int64, bool) {
	if IsBlank(raw) {
		return nil, true
	}
	if !IsDigits(raw) {
		c.Add(InvalidParameter, CodeBadParam, name, raw)
		return nil, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.Add(InvalidParameter, CodeBadParam, name, raw)
		return nil, false
	}
	return &id, true
}

// Relations проверяет связи сотрудника с руководителем и подчинёнными
func (c *Collector) Relations(id int64, supervisorID *int64, subordinates domain.IDSet) {
	if supervisorID != nil && *supervisorID == id {
		c.Add(RelationalViolation, CodeSupervisorIsEmployee, "supervisor", strconv.FormatInt(*supervisorID, 10))
	}
	if subordinates.Contains(id) {
		c.Add(RelationalViolation, CodeEmployeeInSubs, "subordinates", strconv.FormatInt(id, 10))
	}
	if supervisorID != nil && subordinates.Contains(*supervisorID) {
		c.Add(RelationalViolation, CodeSupervisorInSubs, "subordinates", strconv.FormatInt(*supervisorID, 10))
	}
}

// Struct прогоняет теги validate структуры запроса и переводит нарушения в общий формат
func (c *Collector) Struct(v any) {
	err := structValidator.Struct(v)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		c.Add(InvalidParameter, CodeBadBody, "", "")
		return
	}

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			c.Add(MissingParameter, CodeNoParamValue, fe.Field(), "")
		default:
			c.Add(InvalidParameter, CodeBadParam, fe.Field(), fmt.Sprint(fe.Value()))
		}
	}
}

// LenientIDSet делит строку по запятым и молча отбрасывает нечисловые фрагменты
func LenientIDSet(raw string) domain.IDSet {
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if !IsDigits(part) {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return domain.NewIDSet(ids...)
}

// IsBlank считает строку из одних пробелов пустой
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func IsDigits(s string) bool {
	return digitsPattern.MatchString(s)
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !IsBlank(fl.Field().String())
	})

	return v
}
