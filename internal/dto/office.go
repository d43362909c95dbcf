package dto

// ── 办公地点模块 DTO ──

// CreateOfficeRequest 创建办公地点请求
// RadiusMeters 为空时使用配置的默认半径
type CreateOfficeRequest struct {
	Name         string   `json:"name"          binding:"required,min=2,max=100"`
	Address      string   `json:"address"       binding:"required,max=200"`
	Longitude    *float64 `json:"longitude"     binding:"required"`
	Latitude     *float64 `json:"latitude"      binding:"required"`
	RadiusMeters *float64 `json:"radius_meters" binding:"omitempty,gt=0"`
}

// UpdateOfficeRequest 更新办公地点请求（部分更新）
// 经纬度必须成对提供
type UpdateOfficeRequest struct {
	Name         *string  `json:"name"          binding:"omitempty,min=2,max=100"`
	Address      *string  `json:"address"       binding:"omitempty,max=200"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`
	RadiusMeters *float64 `json:"radius_meters" binding:"omitempty,gt=0"`
	IsActive     *bool    `json:"is_active"`
}

// OfficeListRequest 办公地点列表查询参数
type OfficeListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// OfficeResponse 办公地点信息响应
type OfficeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	RadiusMeters float64 `json:"radius_meters"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}
