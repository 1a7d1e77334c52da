// internal/handlers/admin/admin_handler.go
package admin

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/admin"
	"storefront/internal/middleware"
	"storefront/internal/pkg/response"
	adminUsecase "storefront/internal/service/admin"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *adminUsecase.AdminService
}

func NewAdminHandler(adminService *adminUsecase.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", stats)
}

// ========== Users ==========

// ListUsers supports ?search=&role=&page=&per_page=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var f admin.ListFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		response.ValidationError(c, "invalid query", err)
		return
	}
	page, err := h.adminService.ListUsers(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", page)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req admin.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	user, err := h.adminService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "user created", user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	user, err := h.adminService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user updated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.adminService.DeleteUser(c.Request.Context(), middleware.MustGetUserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user deleted", nil)
}

func (h *AdminHandler) AssignRoles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	user, err := h.adminService.AssignRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "roles assigned", user)
}

// ========== Roles ==========

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.adminService.ListRoles(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", roles)
}

func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req admin.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	role, err := h.adminService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "role created", role)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	role, err := h.adminService.UpdateRole(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "role updated", role)
}

func (h *AdminHandler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.adminService.DeleteRole(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "role deleted", nil)
}

// ========== Permissions ==========

func (h *AdminHandler) ListPermissions(c *gin.Context) {
	perms, err := h.adminService.ListPermissions(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", perms)
}

func (h *AdminHandler) CreatePermission(c *gin.Context) {
	var req admin.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	p, err := h.adminService.CreatePermission(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "permission created", p)
}

func (h *AdminHandler) UpdatePermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req admin.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	p, err := h.adminService.UpdatePermission(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "permission updated", p)
}

func (h *AdminHandler) DeletePermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.adminService.DeletePermission(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "permission deleted", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid id", err)
		return 0, false
	}
	return id, true
}
