package report

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/seo-optimizer/auditor/analyzer"
)

// ShareParam is the query parameter carrying an encoded request
const ShareParam = "q"

// ErrNoSharedRequest is returned when a query holds neither q nor the legacy url parameter
var ErrNoSharedRequest = errors.New("no shared request in query")

// EncodeShare serialises req as Base64 of its JSON form
func EncodeShare(req analyzer.AnalysisRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode share: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShare reverses EncodeShare. URL-safe and unpadded Base64 are
// accepted too, and spaces are read back as '+' since unescaped links lose them.
func DecodeShare(encoded string) (analyzer.AnalysisRequest, error) {
	var req analyzer.AnalysisRequest

	encoded = strings.ReplaceAll(strings.TrimSpace(encoded), " ", "+")
	if encoded == "" {
		return req, ErrNoSharedRequest
	}

	var (
		data []byte
		err  error
	)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if data, err = enc.DecodeString(encoded); err == nil {
			break
		}
	}
	if err != nil {
		return req, fmt.Errorf("decode share: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode share: %w", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return req, ErrNoSharedRequest
	}
	return req, nil
}

// ShareLink builds base?q=<encoded request>. Any query or fragment already on
// base is dropped.
func ShareLink(base string, req analyzer.AnalysisRequest) (string, error) {
	encoded, err := EncodeShare(req)
	if err != nil {
		return "", err
	}

	base, _, _ = strings.Cut(base, "#")
	base, _, _ = strings.Cut(base, "?")
	return base + "?" + ShareParam + "=" + url.QueryEscape(encoded), nil
}

// RequestFromQuery resolves a shared request from query parameters: q first,
// then the legacy url, keywords, competitors and context parameters.
func RequestFromQuery(values url.Values) (analyzer.AnalysisRequest, error) {
	if q := values.Get(ShareParam); q != "" {
		return DecodeShare(q)
	}

	if u := values.Get("url"); strings.TrimSpace(u) != "" {
		return analyzer.AnalysisRequest{
			URL:               u,
			TargetKeywords:    values.Get("keywords"),
			Competitors:       values.Get("competitors"),
			AdditionalContext: values.Get("context"),
		}, nil
	}

	return analyzer.AnalysisRequest{}, ErrNoSharedRequest
}
