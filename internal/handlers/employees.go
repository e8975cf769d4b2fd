package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/services"
	"github.com/charlesng35/hrms/pkg/response"
	appValidator "github.com/charlesng35/hrms/pkg/validator"
)

// EmployeeHandler serves the employee CRUD endpoints.
type EmployeeHandler struct {
	svc *services.EmployeeService
}

func NewEmployeeHandler(svc *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type createEmployeeRequest struct {
	FirstName string  `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string  `json:"lastName" validate:"required,notblank,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

func (createEmployeeRequest) invalidMessage(_ error, failures appValidator.ValidationErrors) string {
	if hasFailure(failures, "firstName", "") || hasFailure(failures, "lastName", "") {
		if !hasFailure(failures, "firstName", "max") && !hasFailure(failures, "lastName", "max") {
			return "First name and last name are required"
		}
	}
	return ""
}

// Absent keys stay nil and leave the column untouched.
type updateEmployeeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, employees)
}

// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, employee)
}

// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.svc.Create(requestContext(c), services.CreateEmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Employee created successfully", employee)
}

// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req updateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	employee, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateEmployeeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Employee updated successfully", employee)
}

// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Employee deleted successfully", nil)
}
