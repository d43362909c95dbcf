package geo

import (
	"errors"
	"math"
)

var (
	ErrInvalidCoordinates = errors.New("坐标超出有效范围")
	ErrInvalidRadius      = errors.New("半径必须大于 0")
)

// earthRadiusMeters 球面地球近似半径（米）
const earthRadiusMeters = 6371000.0

// Point 地理坐标点（WGS84 经纬度，单位：度）
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Validate 校验经纬度范围：lon ∈ [-180,180]，lat ∈ [-90,90]
// NaN/Inf 一律视为非法
func (p Point) Validate() error {
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) ||
		math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return ErrInvalidCoordinates
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Distance 计算两点间的大圆距离（米），haversine 公式
func Distance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// 浮点误差可能使 h 略超 1，对跖点时 Sqrt(负数) 会产生 NaN
	if h > 1 {
		h = 1
	}

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h)), nil
}

// WithinRadius 判断两点间大圆距离是否不超过 radiusMeters（闭区间，边界算在内）
func WithinRadius(a, b Point, radiusMeters float64) (bool, error) {
	if radiusMeters <= 0 || math.IsNaN(radiusMeters) {
		return false, ErrInvalidRadius
	}

	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}

	return d <= radiusMeters, nil
}
