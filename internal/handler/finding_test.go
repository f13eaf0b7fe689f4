package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindingCreateDescriptionLength(t *testing.T) {
	v := NewValidator()

	short := findingCreateReq{
		AuditID:     1,
		Category:    "Major",
		Description: "too short", // 9 characters
		TargetDate:  "2026-12-01",
	}
	assert.Error(t, v.Validate(&short))

	ok := short
	ok.Description = "long enough to describe the non-conformity"
	assert.NoError(t, v.Validate(&ok))
}

func updateFinding(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	h := &FindingHandler{}
	require.NoError(t, h.Update(c))
	return rec
}

func TestFindingUpdateRejectsShortDescription(t *testing.T) {
	rec := updateFinding(t, `{"description":"too short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 10 characters")
}

func TestFindingUpdateRejectsPaddedShortDescription(t *testing.T) {
	// Whitespace padding must not satisfy the minimum.
	rec := updateFinding(t, `{"description":"short     "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindingUpdateRejectsDirectStatusWrite(t *testing.T) {
	rec := updateFinding(t, `{"status":"Closed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "close or reopen")
}
