package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"bookkeeping/database"
	"bookkeeping/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) func() {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 内存库每个连接各自独立，限制为单连接
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.AutoMigrate(&models.Record{}))

	oldDB := database.DB
	database.DB = gormDB
	return func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	recordHandler := NewRecordHandler()
	statsHandler := NewStatsHandler()
	exportHandler := NewExportHandler()
	r.GET("/api/records", recordHandler.List)
	r.POST("/api/record", recordHandler.Create)
	r.PUT("/api/record/:id", recordHandler.Update)
	r.DELETE("/api/record/:id", recordHandler.Delete)
	r.GET("/api/stats", statsHandler.GetStats)
	r.GET("/api/year-stats", statsHandler.GetYearStats)
	r.GET("/api/export/csv", exportHandler.ExportCSV)
	r.GET("/api/export/excel", exportHandler.ExportExcel)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordHandler_CreateAndList(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	body := `{"type":"expense","amount":88.88,"category":"餐饮","date":"2025-11-18","note":"单元测试记录"}`
	w := doJSON(router, "POST", "/api/record", body)
	require.Equal(t, 201, w.Code)

	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "expense", created.Type)
	assert.Equal(t, 88.88, created.Amount)
	assert.Equal(t, "餐饮", created.Category)
	assert.Equal(t, "2025-11-18", created.Date)
	assert.Equal(t, "单元测试记录", created.Note)

	// 列表接口返回裸数组，且包含刚创建的记录（字段原样往返）
	w = doJSON(router, "GET", "/api/records", "")
	require.Equal(t, 200, w.Code)
	var list []RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestRecordHandler_Create_StringAmount(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	// 前端表单提交的金额是字符串，同样接受
	w := doJSON(router, "POST", "/api/record", `{"type":"income","amount":"5000","category":"工资","date":"2025-01-05"}`)
	require.Equal(t, 201, w.Code)

	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 5000.0, created.Amount)
}

func TestRecordHandler_Create_EmptyAmount(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":"","category":"餐饮"}`)
	assert.Equal(t, 400, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "参数错误", resp.Error)
	assert.NotEmpty(t, resp.Detail)
}

func TestRecordHandler_Create_MissingAmount(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","category":"餐饮"}`)
	assert.Equal(t, 400, w.Code)
}

func TestRecordHandler_Create_BadDate(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":10,"date":"2025/01/05"}`)
	assert.Equal(t, 400, w.Code)
}

func TestRecordHandler_Create_Defaults(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":10}`)
	require.Equal(t, 201, w.Code)

	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.DefaultCategory, created.Category)
	assert.Equal(t, time.Now().Format(models.DateLayout), created.Date)
	assert.Equal(t, "", created.Note)
}

func TestRecordHandler_Update_Partial(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":88.88,"category":"餐饮","date":"2025-11-18","note":"原始备注"}`)
	require.Equal(t, 201, w.Code)
	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// 只更新金额和备注，其余字段保持不变
	w = doJSON(router, "PUT", fmt.Sprintf("/api/record/%d", created.ID), `{"amount":99.99,"note":"更新后的记录"}`)
	require.Equal(t, 200, w.Code)

	var updated RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 99.99, updated.Amount)
	assert.Equal(t, "更新后的记录", updated.Note)
	assert.Equal(t, "expense", updated.Type)
	assert.Equal(t, "餐饮", updated.Category)
	assert.Equal(t, "2025-11-18", updated.Date)
}

func TestRecordHandler_Update_NotFound(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "PUT", "/api/record/999999", `{"amount":1}`)
	assert.Equal(t, 404, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "记录未找到", resp.Error)
}

func TestRecordHandler_Update_BadAmount(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":10,"date":"2025-01-01"}`)
	require.Equal(t, 201, w.Code)
	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, "PUT", fmt.Sprintf("/api/record/%d", created.ID), `{"amount":"abc"}`)
	assert.Equal(t, 400, w.Code)
}

func TestRecordHandler_Delete(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "POST", "/api/record", `{"type":"expense","amount":10,"date":"2025-01-01"}`)
	require.Equal(t, 201, w.Code)
	var created RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, "DELETE", fmt.Sprintf("/api/record/%d", created.ID), "")
	require.Equal(t, 200, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "deleted", resp["result"])

	// 删除后列表不再包含该记录
	w = doJSON(router, "GET", "/api/records", "")
	require.Equal(t, 200, w.Code)
	var list []RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestRecordHandler_Delete_NotFound(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	w := doJSON(router, "DELETE", "/api/record/999999", "")
	assert.Equal(t, 404, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "记录未找到", resp.Error)
}

func TestRecordHandler_List_Filters(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()
	router := setupTestRouter()

	seed := []string{
		`{"type":"expense","amount":10,"category":"餐饮","date":"2025-01-01"}`,
		`{"type":"expense","amount":20,"category":"交通","date":"2025-01-15"}`,
		`{"type":"income","amount":5000,"category":"工资","date":"2025-02-01"}`,
	}
	for _, body := range seed {
		w := doJSON(router, "POST", "/api/record", body)
		require.Equal(t, 201, w.Code)
	}

	// 日期范围筛选（闭区间），按日期倒序
	w := doJSON(router, "GET", "/api/records?start=2025-01-01&end=2025-01-31", "")
	require.Equal(t, 200, w.Code)
	var list []RecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2025-01-15", list[0].Date)
	assert.Equal(t, "2025-01-01", list[1].Date)

	// 类别筛选
	w = doJSON(router, "GET", "/api/records?category=工资", "")
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "工资", list[0].Category)

	// 非法日期参数被静默忽略，返回全部记录
	w = doJSON(router, "GET", "/api/records?start=not-a-date&end=also-bad", "")
	require.Equal(t, 200, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 3)
}
