package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Article is one record of the upstream list response. Fields holds every
// key the upstream sent. A field of the wrong type decodes as its zero value.
type Article struct {
	ID     int64
	Title  string
	Author string

	Fields map[string]interface{}
}

func (a *Article) UnmarshalJSON(b []byte) error {
	fields, err := decodeFields(b)
	if err != nil {
		return err
	}

	*a = Article{
		ID:     intField(fields, "id"),
		Title:  stringField(fields, "title"),
		Author: stringField(fields, "author"),
		Fields: fields,
	}

	return nil
}

// ArticlePage is the upstream list response.
type ArticlePage struct {
	Data        []*Article `json:"data"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// ArticleDetail is the record returned by the by-id endpoint. Like Article it
// tolerates fields of the wrong type.
type ArticleDetail struct {
	ID            int64
	Title         string
	Authors       string
	Abstract      string
	Content       string
	URL           string
	PublishedDate string

	Fields map[string]interface{}
}

// detailKeys are the upstream keys mapped onto ArticleDetail.
var detailKeys = []string{"Id", "Title", "Authors", "Abstract", "Content", "Url", "PublishedDate"}

func (a *ArticleDetail) UnmarshalJSON(b []byte) error {
	fields, err := decodeFields(b)
	if err != nil {
		return err
	}

	*a = ArticleDetail{
		ID:            intField(fields, "Id"),
		Title:         stringField(fields, "Title"),
		Authors:       stringField(fields, "Authors"),
		Abstract:      stringField(fields, "Abstract"),
		Content:       stringField(fields, "Content"),
		URL:           stringField(fields, "Url"),
		PublishedDate: stringField(fields, "PublishedDate"),
		Fields:        fields,
	}

	return nil
}

// Field is a named scalar value for display.
type Field struct {
	Name  string
	Value string
}

// Extra returns the scalar upstream fields not mapped onto the struct,
// sorted by name. Nested objects, arrays, nulls and empty strings are left
// out.
func (a *ArticleDetail) Extra() []Field {
	out := make([]Field, 0, len(a.Fields))
	for k, v := range a.Fields {
		if isDetailKey(k) {
			continue
		}

		var s string
		switch v := v.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			s = strconv.FormatBool(v)
		}
		if s == "" {
			continue
		}
		out = append(out, Field{Name: k, Value: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func isDetailKey(k string) bool {
	for _, key := range detailKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}

	return false
}

// ArticleEnvelope wraps the by-id record under the "D" key.
type ArticleEnvelope struct {
	D *ArticleDetail `json:"D"`
}

func decodeFields(b []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// lookup finds key, falling back to a case-insensitive match.
func lookup(fields map[string]interface{}, key string) interface{} {
	if v, ok := fields[key]; ok {
		return v
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return nil
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := lookup(fields, key).(string)

	return s
}

func intField(fields map[string]interface{}, key string) int64 {
	switch v := lookup(fields, key).(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}

	return 0
}
