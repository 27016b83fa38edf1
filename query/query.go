// Package query turns the generic filter/sort/page portion of a request URL
// into store-level criteria and options, plus the pagination metadata the
// list endpoints report. Nothing here touches the database.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Keys that control pagination and shaping rather than filtering.
var reserved = map[string]bool{
	"limit":  true,
	"skip":   true,
	"offset": true,
	"sort":   true,
	"fields": true,
}

type Query struct {
	Criteria   bson.M
	Limit      int64
	Skip       int64
	Sort       bson.D
	Projection bson.D

	params url.Values
}

// Parse reads recognized pagination controls (limit, skip/offset, sort,
// fields) and treats every remaining parameter as an equality criterion.
// Values are coerced: numbers, booleans and null become typed values, comma
// lists and repeated keys become $in.
func Parse(values url.Values, defaultLimit int64) *Query {
	q := &Query{
		Criteria: bson.M{},
		Limit:    defaultLimit,
		params:   values,
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	if v := values.Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			q.Limit = n
		}
	}
	skip := values.Get("skip")
	if skip == "" {
		skip = values.Get("offset")
	}
	if skip != "" {
		if n, err := strconv.ParseInt(skip, 10, 64); err == nil && n > 0 {
			q.Skip = n
		}
	}

	for _, spec := range values["sort"] {
		for _, field := range strings.Split(spec, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			order := int32(1)
			if strings.HasPrefix(field, "-") {
				order = -1
				field = field[1:]
			}
			q.Sort = append(q.Sort, bson.E{Key: field, Value: order})
		}
	}

	for _, spec := range values["fields"] {
		for _, field := range strings.Split(spec, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			include := int32(1)
			if strings.HasPrefix(field, "-") {
				include = 0
				field = field[1:]
			}
			q.Projection = append(q.Projection, bson.E{Key: field, Value: include})
		}
	}

	for key, raw := range values {
		if reserved[key] {
			continue
		}
		var parsed []interface{}
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				parsed = append(parsed, coerce(part))
			}
		}
		if len(parsed) == 1 {
			q.Criteria[key] = parsed[0]
		} else if len(parsed) > 1 {
			q.Criteria[key] = bson.M{"$in": parsed}
		}
	}

	return q
}

func coerce(s string) interface{} {
	switch s {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func (q *Query) FindOptions() *options.FindOptions {
	opts := options.Find().SetLimit(q.Limit).SetSkip(q.Skip)
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	return opts
}

// NumberOfPages reports ceil(total / limit).
func (q *Query) NumberOfPages(total int64) int64 {
	return (total + q.Limit - 1) / q.Limit
}

// Links computes first/prev/next/last URLs for the current window, keeping
// the non-pagination parameters of the original request.
func (q *Query) Links(base string, total int64) map[string]string {
	links := map[string]string{
		"first": q.link(base, 0),
	}

	last := int64(0)
	if pages := q.NumberOfPages(total); pages > 0 {
		last = (pages - 1) * q.Limit
	}
	links["last"] = q.link(base, last)

	if q.Skip > 0 {
		prev := q.Skip - q.Limit
		if prev < 0 {
			prev = 0
		}
		links["prev"] = q.link(base, prev)
	}
	if q.Skip+q.Limit < total {
		links["next"] = q.link(base, q.Skip+q.Limit)
	}

	return links
}

func (q *Query) link(base string, skip int64) string {
	params := url.Values{}
	for key, raw := range q.params {
		if reserved[key] {
			continue
		}
		params[key] = raw
	}
	if sort := q.params.Get("sort"); sort != "" {
		params.Set("sort", sort)
	}
	if fields := q.params.Get("fields"); fields != "" {
		params.Set("fields", fields)
	}
	params.Set("limit", strconv.FormatInt(q.Limit, 10))
	params.Set("skip", strconv.FormatInt(skip, 10))
	return base + "?" + params.Encode()
}
