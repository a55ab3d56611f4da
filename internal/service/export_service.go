package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/repository"
)

var (
	ErrExportNoGrades     = errors.New("该课程暂无成绩可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 成绩单导出业务接口（教师/管理员路由可达）
type ExportService interface {
	GradeReport(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// GradeReport 导出某课程全部成绩为 xlsx
// 返回文件内容、建议文件名
func (s *exportService) GradeReport(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCourseNotFound
		}
		return nil, "", err
	}

	grades, err := s.repo.Grade.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程成绩失败", zap.Error(err))
		return nil, "", err
	}
	if len(grades) == 0 {
		return nil, "", ErrExportNoGrades
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 成绩单", course.Name))
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, "A2", "学生姓名")
	f.SetCellValue(sheetName, "B2", "学生邮箱")
	f.SetCellValue(sheetName, "C2", "分数")
	f.SetCellValue(sheetName, "D2", "录入日期")
	f.SetCellStyle(sheetName, "A2", "D2", headerStyle)

	// 数据行
	row := 3
	for i := range grades {
		g := &grades[i]
		name, email := "", ""
		if g.Student != nil {
			name = g.Student.Name
			email = g.Student.Email
		}
		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), email)
		f.SetCellValue(sheetName, cell("C", row), g.Score)
		f.SetCellValue(sheetName, cell("D", row), g.Date.Format("2006-01-02"))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩单_%s.xlsx", course.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
