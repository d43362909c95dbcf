package model

import "geoattend/backend/pkg/geo"

// OfficeLocation 办公地点表 — 对应 office_locations
// 地理围栏为"圆心 + 半径"单一模型，经纬度拆列存储便于索引与移植
type OfficeLocation struct {
	OfficeLocationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"office_location_id"`
	Name             string  `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Address          string  `gorm:"type:varchar(200);not null"                     json:"address"`
	Longitude        float64 `gorm:"not null"                                       json:"longitude"`
	Latitude         float64 `gorm:"not null"                                       json:"latitude"`
	RadiusMeters     float64 `gorm:"not null"                                       json:"radius_meters"`
	IsActive         bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (OfficeLocation) TableName() string { return "office_locations" }

// Point 办公地点的地理围栏圆心
func (o *OfficeLocation) Point() geo.Point {
	return geo.Point{Longitude: o.Longitude, Latitude: o.Latitude}
}
