package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Freeeeeet/study_planner/internal/model"
)

func testData() *model.AppData {
	data := model.NewAppData()
	data.ScheduleOverrides = []model.ScheduleOverride{
		{Date: "2025-01-06", SlotID: model.SlotID(model.Monday, "21:30"), NewSubjectID: "MAT"},
	}
	return data
}

func TestBuildWeek(t *testing.T) {
	// среда, неделя начинается 06.01
	week := BuildWeek(testData(), time.Date(2025, time.January, 8, 15, 0, 0, 0, time.UTC))

	require.Len(t, week, 5)
	assert.Equal(t, time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC), week[0].Date)
	assert.Equal(t, model.Friday, week[4].Day)

	var overridden []Cell
	for _, c := range week[0].Cells {
		if c.Overridden {
			overridden = append(overridden, c)
		}
	}
	require.Len(t, overridden, 1)
	assert.Equal(t, "Matemática", overridden[0].Subject.Name)
}

func TestWeekImageIsPNG(t *testing.T) {
	weekStart := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	img, err := WeekImage(testData(), weekStart, weekStart.Add(19*time.Hour+20*time.Minute))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, decoded.Bounds().Dx())
	assert.Equal(t, imageHeight, decoded.Bounds().Dy())
}

func TestWeekWorkbook(t *testing.T) {
	weekStart := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	raw, err := WeekWorkbook(testData(), weekStart)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	header, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Seg 06/01", header)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	found := false
	for _, row := range rows {
		if len(row) > 1 && row[0] == "21:30-22:15" {
			assert.Equal(t, "Matemática *", row[1])
			found = true
		}
	}
	assert.True(t, found)
}

func TestSubjectColor(t *testing.T) {
	assert.Equal(t, "#3B82F6", HexColor(SubjectColor("blue-500")))
	assert.Equal(t, unknownSubjectColor, SubjectColor("nope"))
}
