package entity

import "errors"

// 跨包共享的哨兵错误，调用方用errors.Is判别
var (
	// ErrInvalidPosition 请求了坐标上不存在的道路属性
	ErrInvalidPosition = errors.New("invalid position")
	// ErrOutOfBounds 坐标超出网格范围
	ErrOutOfBounds = errors.New("position out of bounds")
)
