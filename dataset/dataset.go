// Package dataset loads the static gym membership dataset and computes
// the aggregated series the dashboard charts consume.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one customer from the historical dataset. Binary columns are
// stored as 0/1 the way the export writes them.
type Row struct {
	Gender                        int     `json:"gender"`
	NearLocation                  int     `json:"near_location"`
	Partner                       int     `json:"partner"`
	PromoFriends                  int     `json:"promo_friends"`
	Phone                         int     `json:"phone"`
	ContractPeriod                int     `json:"contract_period"`
	GroupVisits                   int     `json:"group_visits"`
	Age                           int     `json:"age"`
	AvgAdditionalChargesTotal     float64 `json:"avg_additional_charges_total"`
	MonthToEndContract            float64 `json:"month_to_end_contract"`
	Lifetime                      int     `json:"lifetime"`
	AvgClassFrequencyTotal        float64 `json:"avg_class_frequency_total"`
	AvgClassFrequencyCurrentMonth float64 `json:"avg_class_frequency_current_month"`
	Churn                         int     `json:"churn"`
}

// Dataset is the loaded customer table plus its loyal (Churn = 0) subset.
type Dataset struct {
	rows  []Row
	loyal []Row
}

// Load reads the dataset CSV. encoding selects an optional charset
// decode for non-UTF-8 exports ("", "utf-8", "latin1", "windows-1252").
func Load(path, encoding string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	decoded, err := decodeReader(file, encoding)
	if err != nil {
		return nil, err
	}
	return Parse(decoded)
}

// Parse reads CSV rows from an already-decoded stream.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index["Churn"]; !ok {
		return nil, fmt.Errorf("column Churn not found in dataset")
	}

	dataset := &Dataset{}
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}
		row, err := parseRow(index, fields)
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		dataset.rows = append(dataset.rows, row)
		if row.Churn == 0 {
			dataset.loyal = append(dataset.loyal, row)
		}
	}
	if len(dataset.rows) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}
	return dataset, nil
}

func parseRow(index map[string]int, fields []string) (Row, error) {
	var row Row
	var err error
	intCols := []struct {
		name string
		dst  *int
	}{
		{"gender", &row.Gender},
		{"Near_Location", &row.NearLocation},
		{"Partner", &row.Partner},
		{"Promo_friends", &row.PromoFriends},
		{"Phone", &row.Phone},
		{"Contract_period", &row.ContractPeriod},
		{"Group_visits", &row.GroupVisits},
		{"Age", &row.Age},
		{"Lifetime", &row.Lifetime},
		{"Churn", &row.Churn},
	}
	for _, col := range intCols {
		if *col.dst, err = intField(index, fields, col.name); err != nil {
			return Row{}, err
		}
	}
	floatCols := []struct {
		name string
		dst  *float64
	}{
		{"Avg_additional_charges_total", &row.AvgAdditionalChargesTotal},
		{"Month_to_end_contract", &row.MonthToEndContract},
		{"Avg_class_frequency_total", &row.AvgClassFrequencyTotal},
		{"Avg_class_frequency_current_month", &row.AvgClassFrequencyCurrentMonth},
	}
	for _, col := range floatCols {
		if *col.dst, err = floatField(index, fields, col.name); err != nil {
			return Row{}, err
		}
	}
	return row, nil
}

func intField(index map[string]int, fields []string, name string) (int, error) {
	value, err := floatField(index, fields, name)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func floatField(index map[string]int, fields []string, name string) (float64, error) {
	i, ok := index[name]
	if !ok {
		return 0, fmt.Errorf("column %s not found", name)
	}
	if i >= len(fields) {
		return 0, fmt.Errorf("column %s missing", name)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return value, nil
}

// Rows returns every customer.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Loyal returns the customers with Churn = 0.
func (d *Dataset) Loyal() []Row {
	return d.loyal
}

// Len returns the total row count.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// ChurnRate returns the fraction of churned customers.
func (d *Dataset) ChurnRate() float64 {
	if len(d.rows) == 0 {
		return 0
	}
	return float64(len(d.rows)-len(d.loyal)) / float64(len(d.rows))
}
