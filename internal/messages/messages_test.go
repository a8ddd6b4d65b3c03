package messages

import (
	"strings"
	"testing"
)

// TestLookup tests interpolation of catalog entries
func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		id       ID
		args     []any
		expected string
	}{
		{
			name:     "added with kind and name",
			id:       ResourceAdded,
			args:     []any{"Credential", "cred1"},
			expected: `Credential "cred1" was added.`,
		},
		{
			name:     "does not exist",
			id:       DoesNotExist,
			args:     []any{"Source", "missing"},
			expected: `Source "missing" does not exist.`,
		},
		{
			name:     "partial clear failure",
			id:       ClearAllPartial,
			args:     []any{"credentials", "credentials", "a"},
			expected: "Some credentials were removed. However, an error occurred while removing the following credentials: a.",
		},
		{
			name:     "no args passes format through",
			id:       NextResultsPrompt,
			args:     nil,
			expected: "Press enter to see the next set of results.",
		},
		{
			name:     "scan started",
			id:       ScanStarted,
			args:     []any{"11"},
			expected: `Scan "11" started.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(tt.id, tt.args...)
			if got != tt.expected {
				t.Errorf("Lookup(%s) = %q, want %q", tt.id, got, tt.expected)
			}
		})
	}
}

// TestLookupUnknownPanics verifies a missing key surfaces loudly
func TestLookupUnknownPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Lookup() with unknown id should panic")
		}
	}()

	Lookup(ID("NO_SUCH_KEY"))
}

// TestCatalogComplete verifies every declared ID has a catalog entry
func TestCatalogComplete(t *testing.T) {
	ids := []ID{
		ConnectionError, SSLError, ServerConfigRequired, ServerLoginRequired,
		ServerConfigSaved, LoginSuccess, LogoutSuccess, StatusWritten,
		SSLBundleNotFound,
		ResourceAdded, ResourceUpdated, ResourceRemoved, DoesNotExist,
		NoneExist, NoneExistToRemove, ClearAllSuccess, ClearAllPartial,
		NameResolutionErr, NameInvalid, EditNoArgs, NextResultsPrompt,
		WriteFileSuccess, OutputDirNotExist, OutputFileRequired,
		CredTypeRequired, CredTypeInvalid, CredNetworkOnly,
		CredSecretRequired, CredPasswordRequired,
		CredKeyfileNotFound, CredKeyfileNotAbsolute, CredBecomeInvalid,
		SourceHostsEmpty, SourceHostInvalid, SourceCredsEmpty,
		SourceTypeInvalid, PortInvalid, SourceOptionWrongType,
		SourceOptionNotBool, SourceExcludeNetOnly, SourceMultipleHostsOnly,
		ScanStarted, ScanPaused, ScanCanceled, ScanRestarted,
		ScanSourcesEmpty, ScanProductInvalid, ScanDirNotAbsolute,
		ScanConcurrencyBounds, ScanJobIDStatus,
		ReportMergeStarted, ReportMergeStatus, ReportMergeReportID,
		ReportNoReportID, ReportMergeTooFew, PromptNoTTY,
		InsightsUploadSuccess, InsightsUploadFailed, InsightsClientMissing,
		InsightsReportRequired,
	}

	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			t.Errorf("catalog is missing entry for %s", id)
		}
	}
}

// TestCatalogEntriesNonEmpty verifies no entry is blank
func TestCatalogEntriesNonEmpty(t *testing.T) {
	for id, format := range catalog {
		if strings.TrimSpace(format) == "" {
			t.Errorf("catalog entry %s is empty", id)
		}
	}
}
