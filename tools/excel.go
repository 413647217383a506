package tools

import (
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

const excelTimeLayout = "2006-01-02 15:04:05"

type excelColumn struct {
	index  []int
	header string
}

// ExportToExcel 将结构体切片写入 sheet，表头取 excel tag（"-" 跳过，缺省为字段名）
// 空切片也会写出表头
func ExportToExcel(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return err
	} else if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	columns := collectColumns(elemType, nil)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
	}

	row := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		for colIndex, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(elem.FieldByIndex(col.index))); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func collectColumns(t reflect.Type, parent []int) []excelColumn {
	var columns []excelColumn
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		idx := append(append([]int(nil), parent...), i)

		tag := sf.Tag.Get("excel")
		if tag == "-" {
			continue
		}
		// 匿名嵌入且没有显式表头的结构体展开
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && tag == "" {
			columns = append(columns, collectColumns(sf.Type, idx)...)
			continue
		}
		if tag == "" {
			tag = sf.Name
		}
		columns = append(columns, excelColumn{index: idx, header: tag})
	}
	return columns
}

func cellValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	switch val := fv.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(excelTimeLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}
