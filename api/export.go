package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"bookkeeping/database"
	"bookkeeping/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange 解析导出接口的日期范围，两个参数均为必填
func exportRange(c *gin.Context) (start, end time.Time, ok bool) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return start, end, false
	}

	start, err := time.ParseInLocation(models.DateLayout, startStr, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return start, end, false
	}

	end, err = time.ParseInLocation(models.DateLayout, endStr, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return start, end, false
	}

	return start, end, true
}

func queryExportRecords(start, end time.Time) ([]models.Record, error) {
	var records []models.Record
	err := database.DB.
		Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func typeLabel(t string) string {
	switch t {
	case models.TypeIncome:
		return "收入"
	case models.TypeExpense:
		return "支出"
	default:
		return t
	}
}

// ExportCSV 导出记录为 CSV
// @Summary 导出记录为 CSV
// @Description 根据日期范围导出记账记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Param start query string true "开始日期 (2025-01-01)"
// @Param end query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	records, err := queryExportRecords(start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "类型", "金额", "类别", "日期", "备注"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, r := range records {
		row := []string{
			fmt.Sprintf("%d", r.ID),
			typeLabel(r.Type),
			fmt.Sprintf("%.2f", r.Amount),
			r.Category,
			r.DateString(),
			r.Note,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("records_%s_%s.csv", c.Query("start"), c.Query("end"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出记录为 Excel
// @Summary 导出记录为 Excel
// @Description 根据日期范围导出记账记录为 xlsx 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start query string true "开始日期 (2025-01-01)"
// @Param end query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	records, err := queryExportRecords(start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "记账记录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"ID", "类型", "金额", "类别", "日期", "备注"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A1", "F1", headerStyle)

	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), typeLabel(r.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.DateString())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Note)
	}

	f.SetColWidth(sheetName, "A", "F", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("records_%s_%s.xlsx", c.Query("start"), c.Query("end"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
