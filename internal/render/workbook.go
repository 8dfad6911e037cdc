package render

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/model"
)

const sheetName = "Horário"

// WeekWorkbook выгружает расписание недели в .xlsx:
// строка на каждый интервал времени, столбец на каждый учебный день
func WeekWorkbook(data *model.AppData, weekStart time.Time) ([]byte, error) {
	week := BuildWeek(data, weekStart)

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	f.SetColWidth(sheetName, "A", "A", 14)
	lastCol := colName(len(week))
	f.SetColWidth(sheetName, "B", lastCol, 24)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	// Заголовок
	first := week[0].Date
	title := fmt.Sprintf("%s · %s - %s", data.SelectedClassID,
		formatting.FormatDate(first), formatting.FormatDate(week[len(week)-1].Date))
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// Шапка
	f.SetCellValue(sheetName, "A2", "Hora")
	for i, column := range week {
		f.SetCellValue(sheetName, cell(colName(i+1), 2),
			fmt.Sprintf("%s %s", formatting.WeekdayShort(column.Day), column.Date.Format("02/01")))
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// Строки по интервалам времени
	ranges := timeRanges(week)
	rowOf := make(map[string]int, len(ranges))
	for i, r := range ranges {
		rowOf[r] = 3 + i
		f.SetCellValue(sheetName, cell("A", 3+i), r)
	}

	styles := make(map[string]int)
	for i, column := range week {
		col := colName(i + 1)
		for _, c := range column.Cells {
			row := rowOf[formatting.FormatTimeRange(c.Slot)]
			text := c.Subject.Name
			if c.Overridden {
				text += " *"
			}
			f.SetCellValue(sheetName, cell(col, row), text)

			style, err := subjectStyle(f, styles, c)
			if err != nil {
				return nil, err
			}
			f.SetCellStyle(sheetName, cell(col, row), cell(col, row), style)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// subjectStyle заливка цветом предмета; стили кешируются по цвету и признаку замены
func subjectStyle(f *excelize.File, cache map[string]int, c Cell) (int, error) {
	key := fmt.Sprintf("%s|%t", c.Subject.Color, c.Overridden)
	if id, ok := cache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{HexColor(lighten(SubjectColor(c.Subject.Color), 0.6))}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}
	if c.Overridden {
		style.Font = &excelize.Font{Bold: true, Color: HexColor(overrideColor)}
	}

	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	cache[key] = id
	return id, nil
}

// timeRanges все интервалы "HH:mm-HH:mm" недели по возрастанию
func timeRanges(week []DayColumn) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, column := range week {
		for _, c := range column.Cells {
			r := formatting.FormatTimeRange(c.Slot)
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
