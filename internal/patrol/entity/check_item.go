package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// 检查项类型
const (
	ItemTypePassFail = "pass_fail" // 通过/不通过
	ItemTypeNumber   = "number"    // 数值读数
	ItemTypeSelect   = "select"    // 选项单选
	ItemTypeText     = "text"      // 自由文本
)

// 结果字面量
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// FailResults 判定为异常的结果字面量集合。
// 历史数据中 select 类型检查项使用 "異常" 作为失败选项，与符号值 fail 等价。
var FailResults = []string{ResultFail, "異常"}

// IsFailResult 判断单项结果是否属于失败集合
func IsFailResult(result string) bool {
	for _, f := range FailResults {
		if result == f {
			return true
		}
	}
	return false
}

// IsValidItemType 判断检查项类型是否合法
func IsValidItemType(t string) bool {
	switch t {
	case ItemTypePassFail, ItemTypeNumber, ItemTypeSelect, ItemTypeText:
		return true
	}
	return false
}

// StringList JSON 序列化的字符串列表字段（select 类型检查项的选项集，保持顺序）
type StringList []string

// Value 实现 driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(data, s)
}

// Contains 判断选项集是否包含指定值
func (s StringList) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// 校验错误
var (
	ErrPinIncomplete = errors.New("标注点坐标必须同时提供 x 和 y")
	ErrPinOutOfRange = errors.New("标注点坐标必须在 0-100 百分比范围内")
	ErrEmptyResult   = errors.New("检查结果不能为空")
	ErrInvalidResult = errors.New("检查结果不在合法取值范围内")
	ErrInvalidItem   = errors.New("检查项不合法")
)

// ValidatePin 校验标注点坐标：x/y 要么都为空，要么都在 [0,100] 内
func ValidatePin(x, y *float64) error {
	if x == nil && y == nil {
		return nil
	}
	if x == nil || y == nil {
		return ErrPinIncomplete
	}
	if *x < 0 || *x > 100 || *y < 0 || *y > 100 {
		return ErrPinOutOfRange
	}
	return nil
}

// ValidateResult 按检查项类型校验结果取值
func ValidateResult(itemType, result string, options StringList) error {
	if result == "" {
		return ErrEmptyResult
	}
	switch itemType {
	case ItemTypePassFail:
		if result != ResultPass && result != ResultFail {
			return fmt.Errorf("%w: pass_fail 类型只接受 pass/fail", ErrInvalidResult)
		}
	case ItemTypeNumber:
		if _, err := strconv.ParseFloat(result, 64); err != nil {
			return fmt.Errorf("%w: number 类型需要数值", ErrInvalidResult)
		}
	case ItemTypeSelect:
		if len(options) > 0 && !options.Contains(result) {
			return fmt.Errorf("%w: select 类型结果必须是已配置选项", ErrInvalidResult)
		}
	case ItemTypeText:
		// 自由文本不限制取值
	default:
		return fmt.Errorf("%w: 未知检查项类型 %s", ErrInvalidItem, itemType)
	}
	return nil
}
