package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hypolab/domain/core"
	"hypolab/internal"
	"hypolab/ports"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

var _ ports.SampleSource = (*DataReader)(nil)

// Option configures a DataReader
type Option func(*DataReader)

// WithSheet selects the worksheet read from xlsx files
func WithSheet(name string) Option {
	return func(r *DataReader) {
		if name != "" {
			r.sheet = name
		}
	}
}

// WithLogger replaces the package default logger
func WithLogger(logger *internal.Logger) Option {
	return func(r *DataReader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ...Option) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	r := &DataReader{
		filePath: filePath,
		fileType: fileType,
		sheet:    defaultSheet,
		logger:   internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("component", "data_reader")
	return r
}

// Path returns the file the reader was created for
func (r *DataReader) Path() string {
	return r.filePath
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s file %s", core.ErrNoDataSource, strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// Columns lists the header row
func (r *DataReader) Columns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return data.Headers, nil
}

// ReadColumn parses one column as float64. Header matching is exact first,
// then case-insensitive.
func (r *DataReader) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	header, ok := matchHeader(data.Headers, name)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", core.ErrColumnNotFound, name, filepath.Base(r.filePath))
	}

	values := make([]float64, 0, len(data.Rows))
	skipped := 0
	for _, row := range data.Rows {
		v, ok := parseNumeric(row[header])
		if !ok {
			skipped++
			continue
		}
		values = append(values, v)
	}
	if skipped > 0 {
		r.logger.Debug("column %q: skipped %d blank or non-numeric cells", header, skipped)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column %q has no numeric values", core.ErrInsufficientData, header)
	}
	return values, nil
}

// readExcelData reads the configured sheet into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: Excel file must have a header row and at least one data row", core.ErrInsufficientData)
	}
	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: CSV file must have a header row and at least one data row", core.ErrInsufficientData)
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func matchHeader(headers []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, h := range headers {
		if h == name {
			return h, true
		}
	}
	for _, h := range headers {
		if strings.EqualFold(h, name) {
			return h, true
		}
	}
	return "", false
}

func parseNumeric(cell string) (float64, bool) {
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
