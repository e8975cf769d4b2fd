package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/hrms/internal/services"
	"github.com/charlesng35/hrms/pkg/response"
	appValidator "github.com/charlesng35/hrms/pkg/validator"
)

// TeamHandler serves team CRUD, membership and audit log endpoints.
type TeamHandler struct {
	svc   *services.TeamService
	audit *services.AuditService
}

func NewTeamHandler(svc *services.TeamService, audit *services.AuditService) *TeamHandler {
	return &TeamHandler{svc: svc, audit: audit}
}

type createTeamRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
}

func (createTeamRequest) invalidMessage(_ error, failures appValidator.ValidationErrors) string {
	if hasFailure(failures, "name", "required") || hasFailure(failures, "name", "notblank") {
		return "Team name is required"
	}
	return ""
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type assignEmployeesRequest struct {
	EmployeeIDs []string `json:"employeeIds" validate:"required,min=1"`
}

func (assignEmployeesRequest) invalidMessage(error, appValidator.ValidationErrors) string {
	return services.ErrEmployeeIDsRequired.Message
}

// GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, teams)
}

// GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, team)
}

// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req createTeamRequest
	if !bindAndValidate(c, &req) {
		return
	}

	team, err := h.svc.Create(requestContext(c), services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Team created successfully", team)
}

// PUT /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	var req updateTeamRequest
	if !bindAndValidate(c, &req) {
		return
	}

	team, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Team updated successfully", team)
}

// DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Team deleted successfully", nil)
}

// POST /api/teams/:id/assign
func (h *TeamHandler) Assign(c *gin.Context) {
	var req assignEmployeesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.AssignEmployees(requestContext(c), c.Param("id"), req.EmployeeIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, fmt.Sprintf("%d employee(s) assigned to team", result.Assigned), result)
}

// DELETE /api/teams/:id/unassign/:employeeId
func (h *TeamHandler) Unassign(c *gin.Context) {
	if err := h.svc.UnassignEmployee(requestContext(c), c.Param("id"), c.Param("employeeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Employee unassigned from team", nil)
}

// GET /api/teams/logs/all
func (h *TeamHandler) Logs(c *gin.Context) {
	logs, err := h.audit.List(requestContext(c), services.LogQuery{
		Limit:  parseIntQuery(c, "limit", 0),
		Action: c.Query("action"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, logs)
}
