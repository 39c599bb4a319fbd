package service

import (
	"time"

	"bookkeeping/models"
)

// CategoryTotal 按 (类别, 类型) 分组的金额合计
type CategoryTotal struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
}

// DailyTotal 单日收入/支出合计
type DailyTotal struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthSummary 月度汇总
type MonthSummary struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// MonthTotals 年度统计中单月的收支结余
type MonthTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// YearSummary 年度汇总，MonthlyStats 固定包含 1-12 月
type YearSummary struct {
	Year         int                 `json:"year"`
	Income       float64             `json:"income"`
	Expense      float64             `json:"expense"`
	Balance      float64             `json:"balance"`
	MonthlyStats map[int]MonthTotals `json:"monthly_stats"`
}

// AggregateByCategory 按 (类别, 类型) 分组求和，输出顺序不保证
// 类型标签不限于 income/expense，未知标签同样参与分组
func AggregateByCategory(records []models.Record) []CategoryTotal {
	type key struct {
		category string
		typ      string
	}
	totals := make(map[key]float64)
	order := make([]key, 0)
	for _, r := range records {
		k := key{r.Category, r.Type}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += r.Amount
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, k := range order {
		result = append(result, CategoryTotal{
			Category: k.category,
			Type:     k.typ,
			Total:    totals[k],
		})
	}
	return result
}

// AggregateDaily 按日期统计收入和支出
// 只有出现过记录的日期才会出现在结果中；未知类型标签不计入任何一侧
func AggregateDaily(records []models.Record) map[string]DailyTotal {
	daily := make(map[string]DailyTotal)
	for _, r := range records {
		day := r.Date.Format(models.DateLayout)
		t := daily[day]
		switch r.Type {
		case models.TypeIncome:
			t.Income += r.Amount
		case models.TypeExpense:
			t.Expense += r.Amount
		}
		daily[day] = t
	}
	return daily
}

// monthInterval 返回某月的左闭右开区间 [当月1日, 次月1日)
// time.Date 会自动处理 12 月到次年 1 月的进位
func monthInterval(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	next := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.Local)
	return start, next
}

// inInterval 判断日期是否落在 [start, next) 内
func inInterval(d, start, next time.Time) bool {
	return !d.Before(start) && d.Before(next)
}

// sumByType 对收入和支出分别求和，未知类型标签两边都不计
func sumByType(records []models.Record) (income, expense float64) {
	for _, r := range records {
		switch r.Type {
		case models.TypeIncome:
			income += r.Amount
		case models.TypeExpense:
			expense += r.Amount
		}
	}
	return income, expense
}

// SummarizeMonth 计算 (year, month) 的月度收支结余
// 只统计日期落在该月左闭右开区间内的记录
func SummarizeMonth(records []models.Record, year, month int) MonthSummary {
	start, next := monthInterval(year, month)
	var selected []models.Record
	for _, r := range records {
		if inInterval(r.Date, start, next) {
			selected = append(selected, r)
		}
	}
	income, expense := sumByType(selected)
	return MonthSummary{
		Year:    year,
		Month:   month,
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	}
}

// SummarizeYear 计算年度收支结余和逐月统计
// 逐月统计固定输出 12 个月，没有记录的月份为全零
func SummarizeYear(records []models.Record, year int) YearSummary {
	startYear := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	endYear := time.Date(year, 12, 31, 0, 0, 0, 0, time.Local)

	var yearRecords []models.Record
	for _, r := range records {
		if !r.Date.Before(startYear) && !r.Date.After(endYear) {
			yearRecords = append(yearRecords, r)
		}
	}

	income, expense := sumByType(yearRecords)

	monthly := make(map[int]MonthTotals, 12)
	for m := 1; m <= 12; m++ {
		start, next := monthInterval(year, m)
		var mIncome, mExpense float64
		for _, r := range yearRecords {
			if !inInterval(r.Date, start, next) {
				continue
			}
			switch r.Type {
			case models.TypeIncome:
				mIncome += r.Amount
			case models.TypeExpense:
				mExpense += r.Amount
			}
		}
		monthly[m] = MonthTotals{
			Income:  mIncome,
			Expense: mExpense,
			Balance: mIncome - mExpense,
		}
	}

	return YearSummary{
		Year:         year,
		Income:       income,
		Expense:      expense,
		Balance:      income - expense,
		MonthlyStats: monthly,
	}
}
