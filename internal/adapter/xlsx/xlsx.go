// Package xlsx turns uploaded spreadsheets into request payloads.
package xlsx

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
)

// Parse reads the first sheet of an .xlsx workbook into request payloads.
// The first row is the header. A "parameters" column holding a JSON object
// becomes the payload as-is; otherwise the row map {header: cell} is the
// payload, doubling as the matching sub-map. Blank rows are skipped.
func Parse(r io.Reader) ([]domainrequest.Params, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	paramsCol := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "parameters") {
			paramsCol = i
			break
		}
	}

	var out []domainrequest.Params
	for i, row := range rows[1:] {
		rowNum := i + 2 // spreadsheet numbering, header is row 1

		if paramsCol >= 0 && paramsCol < len(row) && strings.TrimSpace(row[paramsCol]) != "" {
			var params domainrequest.Params
			if err := json.Unmarshal([]byte(row[paramsCol]), &params); err != nil {
				return nil, fmt.Errorf("row %d: parsing parameters column: %w", rowNum, err)
			}
			out = append(out, params)
			continue
		}

		values := make(map[string]any)
		for c, h := range header {
			if c == paramsCol || c >= len(row) {
				continue
			}
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if cell := strings.TrimSpace(row[c]); cell != "" {
				values[h] = cell
			}
		}
		if len(values) == 0 {
			continue
		}

		params := make(domainrequest.Params, len(values)+1)
		sub := make(map[string]any, len(values))
		for k, v := range values {
			params[k] = v
			sub[k] = v
		}
		params[domainrequest.MatchKey] = sub
		out = append(out, params)
	}
	return out, nil
}
