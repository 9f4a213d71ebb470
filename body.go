package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// requestBody is the decoded request body: a JSON value, a url-encoded form,
// or nothing at all.
type requestBody interface {
	// Field returns the named member, or an empty value when absent.
	Field(name string) jsonValue
}

type jsonBody struct {
	members map[string]jsonValue
}

func (b jsonBody) Field(name string) jsonValue {
	return b.members[name]
}

func (b jsonBody) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(b.members))
	for name, value := range b.members {
		attrs = append(attrs, slog.String(name, value.String()))
	}
	return slog.GroupValue(attrs...)
}

type formBody map[string]string

func (b formBody) Field(name string) jsonValue {
	v, ok := b[name]
	if !ok {
		return nil
	}
	return stringValue(v)
}

type noBody struct{}

func (noBody) Field(string) jsonValue {
	return nil
}

var errMalformedBody = errors.New("malformed request body")

// parseBody decodes raw according to the declared content type, which must
// match exactly (no parameters, same case). Anything else and empty bodies
// yield noBody.
func parseBody(contentType string, raw []byte) (requestBody, error) {
	if len(raw) == 0 {
		return noBody{}, nil
	}

	switch contentType {
	case "application/json":
		return parseJSONBody(raw)
	case "application/x-www-form-urlencoded":
		return parseFormBody(string(raw))
	}
	return noBody{}, nil
}

func parseJSONBody(raw []byte) (requestBody, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid json", errMalformedBody)
	}

	// Only objects have members; any other JSON value reads as empty.
	var members map[string]jsonValue
	if err := json.Unmarshal(raw, &members); err != nil {
		return jsonBody{}, nil
	}
	return jsonBody{members: members}, nil
}

// parseFormBody splits on '&' and the first '=', turns '+' into spaces and
// percent-decodes the value. Keys are kept verbatim and the last duplicate wins.
func parseFormBody(raw string) (requestBody, error) {
	form := formBody{}
	for _, pair := range strings.Split(raw, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: form pair %q has no value", errMalformedBody, pair)
		}
		decoded, err := url.PathUnescape(strings.ReplaceAll(value, "+", " "))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		if !utf8.ValidString(decoded) {
			return nil, fmt.Errorf("%w: form value %q is not valid utf-8", errMalformedBody, value)
		}
		form[key] = decoded
	}
	return form, nil
}

type bodyContextKey struct{}

func bodyFromContext(ctx context.Context) requestBody {
	body, ok := ctx.Value(bodyContextKey{}).(requestBody)
	if !ok {
		return noBody{}
	}
	return body
}

func readBody(r *http.Request) (requestBody, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return parseBody(r.Header.Get("Content-Type"), raw)
}
