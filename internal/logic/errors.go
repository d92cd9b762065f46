package logic

import (
	"errors"
)

// 业务错误。单个创作者或单个窗口范围内的错误不会中断批处理，
// 批处理结果中逐条记录各自的结局。
var (
	// ErrInvalidInput 输入非法，处理前拒绝
	ErrInvalidInput = errors.New("invalid input")
	// ErrCreatorNotFound 创作者不存在
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrNoDataForWindow 窗口内没有任何细粒度记录，跳过该窗口
	ErrNoDataForWindow = errors.New("no data for window")
)
