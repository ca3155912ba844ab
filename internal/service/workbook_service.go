package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"catalog-web/internal/models"
)

type WorkbookService struct{}

func NewWorkbookService() *WorkbookService {
	return &WorkbookService{}
}

// ReadGrid returns every row of the first sheet as raw strings. Formatting is
// preserved as displayed, which is what the price parser expects.
func (s *WorkbookService) ReadGrid(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return rows, nil
}

// GenerateImportTemplate creates the supplier-facing upload template. The
// Products sheet keeps the two banner rows so filled templates line up with
// the importer's expected layout (data starts at row 3).
func (s *WorkbookService) GenerateImportTemplate(outputPath string, categories []models.Category) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Product Catalog Import")

	headers := []string{
		"Product Name", "Brand / Description", "Price (CRC)", "Price (USD)", "Image URL",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%s2", colLetter(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A2", fmt.Sprintf("%s2", colLetter(len(headers)-1)), headerStyle)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	sampleData := [][]interface{}{
		{"Dairy", "", "", "", ""},
		{"Whole Milk 1L", "Dos Pinos", "₡1,500", "", ""},
		{"", "Coronado", "₡1,350", "", ""},
		{"Produce", "", "", "", ""},
		{"Bananas per kg", "Local", "", "$1.20", ""},
	}
	for rowIdx, rowData := range sampleData {
		row := rowIdx + 3
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", colLetter(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 35)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 40)

	if err := s.addCategoriesSheet(f, categories); err != nil {
		return err
	}
	s.addInstructionsSheet(f)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

func (s *WorkbookService) addCategoriesSheet(f *excelize.File, categories []models.Category) error {
	sheetName := "Categories"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Category")
	f.SetCellValue(sheetName, "B1", "Description")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "B1", headerStyle)

	for i, category := range categories {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), category.Description)
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 50)
	return nil
}

func (s *WorkbookService) addInstructionsSheet(f *excelize.File) {
	sheetName := "Instructions"
	f.NewSheet(sheetName)

	instructions := []string{
		"Instructions:",
		"1. Fill product data on the Products sheet starting from row 3.",
		"2. Product Name: required. Leave it blank on follow-up rows to repeat the previous product with a different brand.",
		"3. A row with only a name and no price starts a new category section. Use names from the Categories sheet.",
		"4. Price (CRC): local price in colones, e.g. ₡1,500. Used when both prices are present.",
		"5. Price (USD): dollar price, e.g. $3.50. Either price column may be left empty, not both.",
		"6. Image URL: optional. Pasted images are picked up automatically, one per product row.",
		"",
		"Note: do not modify rows 1 and 2 on the Products sheet.",
	}
	for i, instruction := range instructions {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+1), instruction)
	}

	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "A1", instructionStyle)
	f.SetColWidth(sheetName, "A", "A", 110)
}

func colLetter(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
