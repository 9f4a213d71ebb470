package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	tt := []struct {
		name        string
		contentType string
		body        string
		fields      map[string]string
		absent      []string
	}{
		{
			name:        "json object",
			contentType: "application/json",
			body:        `{"name":"Snow","trackNumber":2,"lyrics":null}`,
			fields:      map[string]string{"name": `"Snow"`, "trackNumber": `2`, "lyrics": `null`},
			absent:      []string{"albumId"},
		},
		{
			name:        "json with charset is not json",
			contentType: "application/json; charset=utf-8",
			body:        `{"name":"Snow"}`,
			absent:      []string{"name"},
		},
		{
			name:        "content type is case sensitive",
			contentType: "Application/JSON",
			body:        `{"name":"Snow"}`,
			absent:      []string{"name"},
		},
		{
			name:        "form with charset is not a form",
			contentType: "application/x-www-form-urlencoded; charset=utf-8",
			body:        "name=Snow",
			absent:      []string{"name"},
		},
		{
			name:        "form decodes multibyte escapes",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=Bj%C3%B6rk",
			fields:      map[string]string{"name": `"Björk"`},
		},
		{
			name:        "json duplicate key keeps last",
			contentType: "application/json",
			body:        `{"name":"a","name":"b"}`,
			fields:      map[string]string{"name": `"b"`},
		},
		{
			name:        "json array has no members",
			contentType: "application/json",
			body:        `["name"]`,
			absent:      []string{"name", "0"},
		},
		{
			name:        "json scalar has no members",
			contentType: "application/json",
			body:        `"name"`,
			absent:      []string{"name"},
		},
		{
			name:        "form decodes plus and percent",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=Red+Hot%20Chili+Peppers&trackNumber=1",
			fields:      map[string]string{"name": `"Red Hot Chili Peppers"`, "trackNumber": `"1"`},
		},
		{
			name:        "form splits on first equals",
			contentType: "application/x-www-form-urlencoded",
			body:        "lyrics=a=b",
			fields:      map[string]string{"lyrics": `"a=b"`},
		},
		{
			name:        "form last duplicate wins",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=first&name=second",
			fields:      map[string]string{"name": `"second"`},
		},
		{
			name:        "form empty value",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=",
			fields:      map[string]string{"name": `""`},
		},
		{
			name:        "form keeps encoded keys verbatim",
			contentType: "application/x-www-form-urlencoded",
			body:        "track%20name=x",
			fields:      map[string]string{"track%20name": `"x"`},
			absent:      []string{"track name"},
		},
		{
			name:        "unknown content type",
			contentType: "text/plain",
			body:        "name=x",
			absent:      []string{"name"},
		},
		{
			name:   "missing content type",
			body:   `{"name":"x"}`,
			absent: []string{"name"},
		},
		{
			name:        "empty body",
			contentType: "application/json",
			absent:      []string{"name"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			body, err := parseBody(tc.contentType, []byte(tc.body))
			require.NoError(t, err)

			for name, want := range tc.fields {
				assert.Equal(t, want, string(body.Field(name)), "field %s", name)
			}
			for _, name := range tc.absent {
				assert.Empty(t, body.Field(name), "field %s", name)
			}
		})
	}
}

func TestParseBodyMalformed(t *testing.T) {
	tt := []struct {
		name        string
		contentType string
		body        string
	}{
		{"truncated json", "application/json", `{"name":`},
		{"json trailing garbage", "application/json", `{} x`},
		{"form pair without equals", "application/x-www-form-urlencoded", "name=x&flag"},
		{"form invalid escape", "application/x-www-form-urlencoded", "name=%G1"},
		{"form invalid utf-8", "application/x-www-form-urlencoded", "name=%FF"},
		{"form truncated utf-8", "application/x-www-form-urlencoded", "name=Bj%C3"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseBody(tc.contentType, []byte(tc.body))
			assert.ErrorIs(t, err, errMalformedBody)
		})
	}
}
