package google

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"rewards/internal/core"
)

// parseRow converts a raw sheet row into a transaction. The second return
// is false only for rows with no usable identity (missing customer id or
// name); malformed date and price cells survive as zero date / NaN price so
// the engine's record-level tolerance still decides their fate.
func parseRow(row []interface{}) (core.Transaction, bool) {
	if len(row) < 2 {
		return core.Transaction{}, false
	}

	id, ok := parseCustomerID(row[0])
	if !ok {
		return core.Transaction{}, false
	}
	name := strings.TrimSpace(cellString(row[1]))
	if name == "" {
		return core.Transaction{}, false
	}

	t := core.Transaction{CustomerID: id, Name: name, Price: math.NaN()}
	if len(row) > 2 {
		if d, err := core.ParseDate(cellString(row[2])); err == nil {
			t.Date = d
		}
	}
	if len(row) > 3 {
		if v, ok := parsePriceCell(row[3]); ok {
			t.Price = v
		}
	}
	return t, true
}

func parseCustomerID(cell interface{}) (int64, bool) {
	switch v := cell.(type) {
	case float64:
		if v != math.Trunc(v) || v <= 0 {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func parsePriceCell(cell interface{}) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, false
		}
		return v, true
	case string:
		return core.ParsePrice(v)
	default:
		return 0, false
	}
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
