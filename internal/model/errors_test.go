package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestServiceUnavailable_CarriesTargetURL(t *testing.T) {
	errObj := ServiceUnavailable("http://backend:9000/api/v1/deals")

	if errObj.Name != ErrNameRequestException {
		t.Errorf("name = %q, want %q", errObj.Name, ErrNameRequestException)
	}
	if errObj.StatusCode != 503 {
		t.Errorf("status_code = %d, want 503", errObj.StatusCode)
	}
	if errObj.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
	if len(errObj.Issues) != 1 {
		t.Fatalf("issues = %+v, want exactly one", errObj.Issues)
	}
	if !strings.Contains(errObj.Issues[0].Message, "http://backend:9000/api/v1/deals") {
		t.Errorf("issue message = %q, want to contain target URL", errObj.Issues[0].Message)
	}
}

func TestErrorObject_UnmarshalsWireFormat(t *testing.T) {
	payload := `{
		"name": "AUTHENTICATION_REQUIRED_ERROR",
		"message": "Authentication Credentials is not valid",
		"status_code": 401,
		"timestamp": 1519932912012,
		"issues": [{"issue": "BadCredentialsException", "message": "Bad credentials"}]
	}`

	var errObj ErrorObject
	if err := json.Unmarshal([]byte(payload), &errObj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if errObj.Name != "AUTHENTICATION_REQUIRED_ERROR" {
		t.Errorf("name = %q", errObj.Name)
	}
	if errObj.StatusCode != 401 {
		t.Errorf("status_code = %d, want 401", errObj.StatusCode)
	}
	if errObj.Timestamp != 1519932912012 {
		t.Errorf("timestamp = %d, want 1519932912012", errObj.Timestamp)
	}
	if len(errObj.Issues) != 1 || errObj.Issues[0].Issue != "BadCredentialsException" {
		t.Errorf("issues = %+v", errObj.Issues)
	}
}

func TestErrorObject_ErrorStringForLogging(t *testing.T) {
	errObj := &ErrorObject{Name: "NOT_FOUND", Message: "deal not found", StatusCode: 404}

	got := errObj.Error()
	if got != "[404] NOT_FOUND: deal not found" {
		t.Errorf("Error() = %q", got)
	}
}
