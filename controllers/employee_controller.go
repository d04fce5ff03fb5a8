package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_seller_admin/app"
	"Gin_postgres_redis_seller_admin/models"

	"github.com/gin-gonic/gin"
)

type EmployeeController struct{ *Srv }

func GetEmployeeController(s *Srv) *EmployeeController { return &EmployeeController{Srv: s} }

// GET /api/employees?q=&page=&size=
func (ec *EmployeeController) ListEmployees(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ec.Repo.ListEmployees(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "employees": res.Employees})
}

// GET /api/employees/:id
func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	e, err := ec.Repo.FindEmployeeByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"employee": e})
}

// POST /api/employees 管理员手工建档（不走私有链接的路径）
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var in struct {
		Code       string `json:"code" binding:"required"`
		FirstName  string `json:"firstName" binding:"required"`
		LastName   string `json:"lastName" binding:"required"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	e := &models.Employee{
		Code:       in.Code,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Phone:      in.Phone,
		Email:      in.Email,
		Active:     true,
	}
	if err := ec.Repo.CreateEmployee(c.Request.Context(), e); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/employees/:id
func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	var in struct {
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		Department *string `json:"department"`
		Phone      *string `json:"phone"`
		Email      *string `json:"email"`
		Active     *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Department != nil {
		fields["department"] = *in.Department
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	if err := ec.Repo.UpdateEmployee(c.Request.Context(), uint(id), fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/employees/:id
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	if err := ec.Repo.DeleteEmployeeByID(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
