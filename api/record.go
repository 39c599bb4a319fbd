package api

import (
	"net/http"
	"strconv"
	"time"

	"bookkeeping/database"
	"bookkeeping/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// RecordHandler 记账记录处理器
type RecordHandler struct{}

// NewRecordHandler 创建记账记录处理器
func NewRecordHandler() *RecordHandler {
	return &RecordHandler{}
}

// CreateRecordRequest 创建记录请求
// amount 兼容数字和数字字符串两种写法
type CreateRecordRequest struct {
	Type     string      `json:"type" example:"expense"`
	Amount   interface{} `json:"amount" example:"88.88"`
	Category string      `json:"category" example:"餐饮"`
	Date     string      `json:"date" example:"2025-01-06"`
	Note     string      `json:"note" example:"午餐"`
}

// UpdateRecordRequest 更新记录请求（补丁语义，只应用出现的字段）
type UpdateRecordRequest struct {
	Type     *string     `json:"type"`
	Amount   interface{} `json:"amount"`
	Category *string     `json:"category"`
	Date     *string     `json:"date"`
	Note     *string     `json:"note"`
}

// RecordResponse 记录的接口返回形式，日期固定为 YYYY-MM-DD
type RecordResponse struct {
	ID       uint    `json:"id"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

func toRecordResponse(r models.Record) RecordResponse {
	return RecordResponse{
		ID:       r.ID,
		Type:     r.Type,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     r.DateString(),
		Note:     r.Note,
	}
}

// applyDateFilter 宽松解析日期范围参数并附加到查询
// 解析失败时直接忽略该过滤条件，不报错（尽力而为的过滤语义）
func applyDateFilter(query *gorm.DB, start, end string) *gorm.DB {
	if start != "" {
		if s, err := time.ParseInLocation(models.DateLayout, start, time.Local); err == nil {
			query = query.Where("date >= ?", s)
		}
	}
	if end != "" {
		if e, err := time.ParseInLocation(models.DateLayout, end, time.Local); err == nil {
			query = query.Where("date <= ?", e)
		}
	}
	return query
}

// List 获取记录列表
// @Summary 获取记录列表
// @Description 获取全部记账记录，支持日期范围和类别筛选，按日期倒序返回。日期参数非法时忽略该筛选条件。
// @Tags 记录
// @Produce json
// @Param start query string false "开始日期 (2025-01-01)"
// @Param end query string false "结束日期 (2025-12-31)"
// @Param category query string false "类别筛选"
// @Success 200 {array} RecordResponse "获取成功"
// @Router /api/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	query := database.DB.Model(&models.Record{})
	query = applyDateFilter(query, c.Query("start"), c.Query("end"))

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var records []models.Record
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// 始终返回数组，空结果返回 []
	result := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toRecordResponse(r))
	}
	c.JSON(http.StatusOK, result)
}

// Create 创建记录
// @Summary 创建记录
// @Description 新增一条收入或支出记录。amount 必须能解析为数字；date 缺省为今天；category 缺省为"未分类"。
// @Tags 记录
// @Accept json
// @Produce json
// @Param request body CreateRecordRequest true "记录信息"
// @Success 201 {object} RecordResponse "创建成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/record [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "请求体格式错误"))
		return
	}

	amount, err := cast.ToFloat64E(req.Amount)
	if err != nil {
		BadRequest(c, "amount 必须为数字")
		return
	}

	date := today()
	if req.Date != "" {
		date, err = time.ParseInLocation(models.DateLayout, req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
	}

	category := req.Category
	if category == "" {
		category = models.DefaultCategory
	}

	record := models.Record{
		Type:     req.Type,
		Amount:   amount,
		Category: category,
		Date:     date,
		Note:     req.Note,
	}

	if err := database.DB.Create(&record).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建记录失败"))
		return
	}

	c.JSON(http.StatusCreated, toRecordResponse(record))
}

// Update 更新记录
// @Summary 更新记录
// @Description 按补丁语义更新指定记录，只有请求体中出现的字段会被修改。
// @Tags 记录
// @Accept json
// @Produce json
// @Param id path int true "记录ID"
// @Param request body UpdateRecordRequest true "要更新的字段"
// @Success 200 {object} RecordResponse "更新成功"
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/record/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c)
		return
	}

	var record models.Record
	if err := database.DB.First(&record, id).Error; err != nil {
		NotFound(c)
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "请求体格式错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Amount != nil {
		amount, err := cast.ToFloat64E(req.Amount)
		if err != nil {
			BadRequest(c, "amount 必须为数字")
			return
		}
		updates["amount"] = amount
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Date != nil {
		date, err := time.ParseInLocation(models.DateLayout, *req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["date"] = date
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&record).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	// 重新获取更新后的记录
	database.DB.First(&record, record.ID)
	c.JSON(http.StatusOK, toRecordResponse(record))
}

// Delete 删除记录
// @Summary 删除记录
// @Description 删除指定的记账记录
// @Tags 记录
// @Produce json
// @Param id path int true "记录ID"
// @Success 200 {object} map[string]string "删除成功"
// @Failure 404 {object} ErrorResponse "记录不存在"
// @Router /api/record/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c)
		return
	}

	var record models.Record
	if err := database.DB.First(&record, id).Error; err != nil {
		NotFound(c)
		return
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "deleted"})
}

// today 返回本地时区的当天日期（零点）
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}
