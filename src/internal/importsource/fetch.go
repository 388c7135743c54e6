package importsource

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"depositimport/src/internal/httpx"
)

// maxBody caps how much of a lookup response is read.
const maxBody = 8 << 20

// transportFailure mirrors what the browser reports for a failed request:
// code 0 and "error" when no response arrived at all.
type transportFailure struct {
	code int
	text string
}

// RunGetData looks up identifier and classifies the answer. Transport failures
// become a danger message and never an error; the returned error is reserved
// for the mapper, whose failures are passed through untouched.
func (s *ImportSource) RunGetData(ctx context.Context, identifier, depositionType string) (Outcome, error) {
	body, resp, fail := s.fetch(ctx, identifier)
	if fail != nil {
		s.log.Warn("lookup failed",
			zap.String("identifier", identifier),
			zap.Int("status", fail.code),
			zap.String("statusText", fail.text))
		return Outcome{StatusMessage: StatusMessage{
			State:   StateDanger,
			Message: "Import from " + s.name + ": " + strconv.Itoa(fail.code) + " " + fail.text,
		}}, nil
	}

	query := gjson.GetBytes(body, "query")
	var status string
	if query.IsObject() {
		status = query.Get("status").String()
	} else {
		status = fallbackStatus(body, resp)
	}
	if status == StatusSuccess && gjson.GetBytes(body, "source").String() == SourceDatabase {
		status = StatusDuplicated
	}

	msg := s.GetImportMessage(status, identifier)
	s.log.Debug("lookup classified",
		zap.String("identifier", identifier),
		zap.String("status", status))
	if status != StatusSuccess {
		return Outcome{StatusMessage: msg}, nil
	}

	if s.mapper == nil {
		return Outcome{}, ErrNoMapper
	}
	record, _ := query.Value().(map[string]any)
	mapping, err := s.mapper.Map(record, depositionType)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Mapping: mapping, StatusMessage: msg}, nil
}

// fetch issues the single GET. A nil failure means a 2xx response with a JSON body.
func (s *ImportSource) fetch(ctx context.Context, identifier string) ([]byte, *http.Response, *transportFailure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+identifier, nil)
	if err != nil {
		s.log.Debug("build request", zap.Error(err))
		return nil, nil, &transportFailure{0, "error"}
	}
	httpx.SetUA(req)
	httpx.SetJSON(req)
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("do request", zap.Error(err))
		return nil, nil, &transportFailure{0, "error"}
	}
	defer func() { _ = resp.Body.Close() }()
	if !httpx.IsSuccess(resp.StatusCode) {
		return nil, resp, &transportFailure{resp.StatusCode, httpx.StatusText(resp)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp, &transportFailure{resp.StatusCode, "error"}
	}
	if !gjson.ValidBytes(body) {
		return nil, resp, &transportFailure{resp.StatusCode, "parsererror"}
	}
	return body, resp, nil
}

// fallbackStatus builds "<status> <statusText>" for bodies without a query
// object, preferring the body's own fields over the transport's. It never
// matches a known status and so always renders as an unknown result.
func fallbackStatus(body []byte, resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if v := gjson.GetBytes(body, "status"); v.Exists() {
		code = v.String()
	}
	text := httpx.StatusText(resp)
	if v := gjson.GetBytes(body, "statusText"); v.Exists() {
		text = v.String()
	}
	return code + " " + text
}
