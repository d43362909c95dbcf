package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"geoattend/backend/internal/dto"
	"geoattend/backend/internal/service"
	"geoattend/backend/pkg/geo"
	"geoattend/backend/pkg/response"
)

// OfficeHandler 办公地点模块 HTTP 处理器
type OfficeHandler struct {
	officeSvc service.OfficeService
}

// NewOfficeHandler 创建 OfficeHandler
func NewOfficeHandler(officeSvc service.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeSvc: officeSvc}
}

// ListOffices 获取办公地点列表
// GET /api/v1/offices
func (h *OfficeHandler) ListOffices(c *gin.Context) {
	var req dto.OfficeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	offices, err := h.officeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": offices})
}

// GetOffice 获取办公地点详情
// GET /api/v1/offices/:id
func (h *OfficeHandler) GetOffice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "办公地点ID不能为空")
		return
	}

	office, err := h.officeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, office)
}

// CreateOffice 创建办公地点
// POST /api/v1/offices
func (h *OfficeHandler) CreateOffice(c *gin.Context) {
	var req dto.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	office, err := h.officeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.Created(c, office)
}

// UpdateOffice 更新办公地点
// PUT /api/v1/offices/:id
func (h *OfficeHandler) UpdateOffice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "办公地点ID不能为空")
		return
	}

	var req dto.UpdateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	office, err := h.officeSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, office)
}

// DeleteOffice 删除办公地点（物理删除）
// DELETE /api/v1/offices/:id
func (h *OfficeHandler) DeleteOffice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "办公地点ID不能为空")
		return
	}

	if err := h.officeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleOfficeError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleOfficeError 统一处理办公地点模块业务错误
func (h *OfficeHandler) handleOfficeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 13001, "办公地点不存在")
	case errors.Is(err, service.ErrOfficeNameTaken):
		response.Conflict(c, 13002, "同名办公地点已存在")
	case errors.Is(err, geo.ErrInvalidCoordinates):
		response.BadRequest(c, 13003, "坐标超出有效范围")
	case errors.Is(err, geo.ErrInvalidRadius):
		response.BadRequest(c, 13004, "半径必须大于 0")
	case errors.Is(err, service.ErrPartialCoordinate):
		response.BadRequest(c, 13005, "经纬度必须成对提供")
	default:
		response.InternalError(c)
	}
}
