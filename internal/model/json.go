package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue 将字段序列化为JSON存储
func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// jsonScan 从数据库读取JSON字段
func jsonScan(src interface{}, dest interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported json column type: %T", src)
	}
}

// StringList JSON存储的字符串数组
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return jsonValue(l)
}

func (l *StringList) Scan(src interface{}) error {
	return jsonScan(src, l)
}
