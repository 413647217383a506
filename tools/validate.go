package tools

import (
	"unicode/utf8"

	"campus-activity/internal/global/response"

	"github.com/shopspring/decimal"
)

// maxAmount decimal(12,2) 能存下的上限
var maxAmount = decimal.RequireFromString("9999999999.99")

// ValidAmount 金额必须为正、最多两位小数且不超出列宽，field 用于提示
func ValidAmount(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return response.ErrInvalidRequest.WithTips(field + "必须大于 0")
	}
	if !amount.Equal(amount.Round(2)) {
		return response.ErrInvalidRequest.WithTips(field + "最多保留两位小数")
	}
	if amount.GreaterThan(maxAmount) {
		return response.ErrInvalidRequest.WithTips(field + "超出上限")
	}
	return nil
}

// MaxLen 按字符数校验文本长度，与 varchar(n) 的计数方式一致
func MaxLen(s string, n int, field string) error {
	if utf8.RuneCountInString(s) > n {
		return response.ErrInvalidRequest.WithTips(field + "过长")
	}
	return nil
}

// MaxLens 依次校验多个字段，返回第一个错误
func MaxLens(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
