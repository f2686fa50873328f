package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adityasawant2/idcarddetection/internal/cli/api"
	"github.com/adityasawant2/idcarddetection/internal/cli/router"
)

// mockLogsClient simulates the API client for the logs command
type mockLogsClient struct {
	logs       []api.LogRecord
	adminLogs  []api.LogRecord
	lastFilter api.LogFilter
	shouldFail bool
	errorMsg   string
}

func (m *mockLogsClient) Logs(limit, offset int) ([]api.LogRecord, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	return m.logs, nil
}

func (m *mockLogsClient) AdminLogs(filter api.LogFilter) ([]api.LogRecord, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	m.lastFilter = filter
	return m.adminLogs, nil
}

func sampleLog(result string, confidence float64) api.LogRecord {
	return api.LogRecord{
		ID:                 "log-1",
		PoliceUserID:       "user-1",
		DLCodeChecked:      "DL12345",
		VerificationResult: result,
		Confidence:         &confidence,
		CreatedAt:          time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

// TestLogsCommand_NoLogs tests the empty log list scenario
func TestLogsCommand_NoLogs(t *testing.T) {
	mockAPI := &mockLogsClient{logs: []api.LogRecord{}}

	var output bytes.Buffer
	err := runLogs(false, api.LogFilter{Limit: 50},
		WithLogsClient(mockAPI, router.GraphOfficer),
		WithLogsOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if !strings.Contains(output.String(), "No verification logs found") {
		t.Errorf("expected empty message, got: %s", output.String())
	}
}

// TestLogsCommand_OfficerList tests the officer's own-log listing
func TestLogsCommand_OfficerList(t *testing.T) {
	mockAPI := &mockLogsClient{
		logs: []api.LogRecord{sampleLog("legit", 95.5)},
	}

	var output bytes.Buffer
	err := runLogs(false, api.LogFilter{Limit: 50},
		WithLogsClient(mockAPI, router.GraphOfficer),
		WithLogsOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "DL12345") {
		t.Errorf("expected checked ID in output, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "legit") {
		t.Errorf("expected result in output, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "95.5%") {
		t.Errorf("expected confidence in output, got: %s", outputStr)
	}
	if strings.Contains(outputStr, "OFFICER") {
		t.Errorf("officer listing should not include the officer column, got: %s", outputStr)
	}
}

// TestLogsCommand_AdminAll tests --all with the admin graph
func TestLogsCommand_AdminAll(t *testing.T) {
	record := sampleLog("fake", 88.0)
	record.PoliceUser = &api.User{ID: "user-1", Name: "Officer Rao"}

	mockAPI := &mockLogsClient{adminLogs: []api.LogRecord{record}}

	var output bytes.Buffer
	err := runLogs(true, api.LogFilter{VerificationResult: "fake", UserID: "user-1", Limit: 10, Offset: 5},
		WithLogsClient(mockAPI, router.GraphAdmin),
		WithLogsOutput(&output),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if !strings.Contains(output.String(), "Officer Rao") {
		t.Errorf("expected officer name in output, got: %s", output.String())
	}

	if mockAPI.lastFilter.VerificationResult != "fake" {
		t.Errorf("expected result filter 'fake', got %q", mockAPI.lastFilter.VerificationResult)
	}
	if mockAPI.lastFilter.UserID != "user-1" {
		t.Errorf("expected user filter 'user-1', got %q", mockAPI.lastFilter.UserID)
	}
	if mockAPI.lastFilter.Limit != 10 || mockAPI.lastFilter.Offset != 5 {
		t.Errorf("expected limit/offset 10/5, got %d/%d", mockAPI.lastFilter.Limit, mockAPI.lastFilter.Offset)
	}
}

// TestLogsCommand_AllRequiresAdmin tests that --all is rejected for officers
func TestLogsCommand_AllRequiresAdmin(t *testing.T) {
	mockAPI := &mockLogsClient{adminLogs: []api.LogRecord{sampleLog("legit", 90)}}

	var output bytes.Buffer
	err := runLogs(true, api.LogFilter{Limit: 50},
		WithLogsClient(mockAPI, router.GraphOfficer),
		WithLogsOutput(&output),
	)
	if err == nil {
		t.Fatal("expected error for --all without admin access")
	}
	if !strings.Contains(err.Error(), "admin") {
		t.Errorf("expected admin-access error, got: %v", err)
	}
}

// TestLogsCommand_APIError tests error propagation
func TestLogsCommand_APIError(t *testing.T) {
	mockAPI := &mockLogsClient{shouldFail: true, errorMsg: "connection refused"}

	var output bytes.Buffer
	err := runLogs(false, api.LogFilter{Limit: 50},
		WithLogsClient(mockAPI, router.GraphOfficer),
		WithLogsOutput(&output),
	)
	if err == nil {
		t.Fatal("expected error from failing API")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected API error passed through, got: %v", err)
	}
}
