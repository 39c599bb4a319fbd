package api

import (
	"net/http"
	"strconv"
	"time"

	"bookkeeping/database"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler 统计处理器
type StatsHandler struct{}

// NewStatsHandler 创建统计处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// StatsResponse /api/stats 返回结构
type StatsResponse struct {
	ByCategory   []service.CategoryTotal       `json:"by_category"`
	DailyStats   map[string]service.DailyTotal `json:"daily_stats"`
	MonthSummary service.MonthSummary          `json:"month_summary"`
}

// intQueryDefault 宽松解析整数查询参数，解析失败时使用默认值
func intQueryDefault(c *gin.Context, key string, def int) int {
	s := c.Query(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// GetStats 获取统计数据
// @Summary 获取统计数据
// @Description 返回按类别的收支汇总、按日统计和月度结余。start/end 筛选类别和按日统计；
// @Description 月度结余按 year/month 独立计算（缺省为当月），与 start/end 无关。
// @Tags 统计
// @Produce json
// @Param start query string false "开始日期 (2025-01-01)"
// @Param end query string false "结束日期 (2025-12-31)"
// @Param year query int false "年份，缺省为当前年"
// @Param month query int false "月份，缺省为当前月"
// @Success 200 {object} StatsResponse "获取成功"
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	// 类别汇总和按日统计基于 start/end 筛选后的记录集
	query := database.DB.Model(&models.Record{})
	query = applyDateFilter(query, c.Query("start"), c.Query("end"))

	var records []models.Record
	if err := query.Find(&records).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// 月度结余独立于 start/end，按月份区间 [当月1日, 次月1日) 查询
	now := time.Now()
	year := intQueryDefault(c, "year", now.Year())
	month := intQueryDefault(c, "month", int(now.Month()))

	startMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	nextMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.Local)

	var monthRecords []models.Record
	if err := database.DB.
		Where("date >= ? AND date < ?", startMonth, nextMonth).
		Find(&monthRecords).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		ByCategory:   service.AggregateByCategory(records),
		DailyStats:   service.AggregateDaily(records),
		MonthSummary: service.SummarizeMonth(monthRecords, year, month),
	})
}

// GetYearStats 获取年度统计
// @Summary 获取年度统计
// @Description 返回指定年份（缺省为当前年）的收支结余和逐月统计，逐月统计固定包含 1-12 月。
// @Tags 统计
// @Produce json
// @Param year query int false "年份，缺省为当前年"
// @Success 200 {object} service.YearSummary "获取成功"
// @Router /api/year-stats [get]
func (h *StatsHandler) GetYearStats(c *gin.Context) {
	year := intQueryDefault(c, "year", time.Now().Year())

	startYear := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	endYear := time.Date(year, 12, 31, 0, 0, 0, 0, time.Local)

	var records []models.Record
	if err := database.DB.
		Where("date >= ? AND date <= ?", startYear, endYear).
		Find(&records).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	c.JSON(http.StatusOK, service.SummarizeYear(records, year))
}
