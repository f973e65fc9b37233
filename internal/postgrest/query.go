package postgrest

import (
	"net/url"
	"strconv"
)

// Query builds a PostgREST query string: column filters use the
// `column=op.value` form, with repeated keys allowed so the same column can
// carry a range (gte + lte).
type Query struct {
	values url.Values
}

func NewQuery() Query {
	return Query{values: url.Values{}}
}

// Select sets the projected columns, including embedded resource selects
// such as "service:services(id,name,company_id)".
func (q Query) Select(columns string) Query {
	q.values.Set("select", columns)
	return q
}

func (q Query) Eq(column, value string) Query {
	return q.filter(column, "eq", value)
}

func (q Query) Neq(column, value string) Query {
	return q.filter(column, "neq", value)
}

func (q Query) Lt(column, value string) Query {
	return q.filter(column, "lt", value)
}

func (q Query) Gt(column, value string) Query {
	return q.filter(column, "gt", value)
}

func (q Query) Gte(column, value string) Query {
	return q.filter(column, "gte", value)
}

func (q Query) Lte(column, value string) Query {
	return q.filter(column, "lte", value)
}

// Order sets the sort expression, e.g. "start_time.asc" or "created_at.desc".
func (q Query) Order(expr string) Query {
	q.values.Set("order", expr)
	return q
}

func (q Query) Limit(n int) Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

func (q Query) filter(column, op, value string) Query {
	q.values.Add(column, op+"."+value)
	return q
}

// Encode renders the query string without a leading "?".
func (q Query) Encode() string {
	if q.values == nil {
		return ""
	}
	return q.values.Encode()
}
