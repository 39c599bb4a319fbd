package models

import (
	"time"
)

// Record 记账记录模型，收入和支出共用一张表
type Record struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Type     string    `json:"type" gorm:"size:10;not null"`
	Amount   float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category string    `json:"category" gorm:"size:50;not null"`
	Date     time.Time `json:"date" gorm:"type:date;not null;index"`
	Note     string    `json:"note" gorm:"size:200"`
}

// TableName 设置表名
func (Record) TableName() string {
	return "records"
}

// 记录类型常量
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// DefaultCategory 未指定类别时的默认值
const DefaultCategory = "未分类"

// DateLayout 日期的统一格式（存储和接口均使用）
const DateLayout = "2006-01-02"

// DateString 返回 YYYY-MM-DD 格式的日期
func (r *Record) DateString() string {
	return r.Date.Format(DateLayout)
}
