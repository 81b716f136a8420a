package redis

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/neomorfeo/growspace/internal/domain"
)

func matchesAll(d document, filters []domain.Filter) bool {
	for _, f := range filters {
		if !matches(gjson.Get(d.raw, f.Field), f) {
			return false
		}
	}
	return true
}

// matches evaluates one filter against a JSON value. Numbers compare
// numerically; everything else compares as text, which orders RFC 3339
// timestamps correctly. A missing field only satisfies neq.
func matches(res gjson.Result, f domain.Filter) bool {
	if !res.Exists() {
		return f.Operator == domain.OpNotEqual
	}

	switch f.Operator {
	case domain.OpEqual:
		return equal(res, f.Value)
	case domain.OpNotEqual:
		return !equal(res, f.Value)
	case domain.OpGreater:
		return compare(res, f.Value) > 0
	case domain.OpGreaterOrEqual:
		return compare(res, f.Value) >= 0
	case domain.OpLess:
		return compare(res, f.Value) < 0
	case domain.OpLessOrEqual:
		return compare(res, f.Value) <= 0
	case domain.OpContains:
		if res.IsArray() {
			for _, el := range res.Array() {
				if containsFold(el.String(), f.Value) {
					return true
				}
			}
			return false
		}
		return containsFold(res.String(), f.Value)
	case domain.OpIn:
		for _, v := range strings.Split(f.Value, ",") {
			if equal(res, strings.TrimSpace(v)) {
				return true
			}
		}
		return false
	}
	return false
}

func equal(res gjson.Result, value string) bool {
	switch res.Type {
	case gjson.Number:
		n, err := strconv.ParseFloat(value, 64)
		return err == nil && res.Float() == n
	case gjson.True, gjson.False:
		b, err := strconv.ParseBool(value)
		return err == nil && res.Bool() == b
	case gjson.Null:
		return value == "" || value == "null"
	}
	return res.String() == value
}

func compare(res gjson.Result, value string) int {
	if res.Type == gjson.Number {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			switch f := res.Float(); {
			case f < n:
				return -1
			case f > n:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(res.String(), value)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
