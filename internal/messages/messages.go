// Package messages provides the keyed catalog of user-facing strings for the
// qpc CLI. Every string an operator sees on stdout is looked up here by a
// symbolic ID and interpolated with positional arguments, keeping wording in
// one place and out of the command handlers.
//
// A missing key is a programmer error: Lookup panics so the defect surfaces
// loudly during tests rather than silently printing an empty string.
package messages

import "fmt"

// ID is a symbolic message identifier.
type ID string

// Message identifiers grouped by concern. The constant value doubles as the
// catalog key.
const (
	// Transport and session
	ConnectionError      ID = "CONNECTION_ERROR"
	SSLError             ID = "SSL_ERROR"
	ServerConfigRequired ID = "SERVER_CONFIG_REQUIRED"
	ServerLoginRequired  ID = "SERVER_LOGIN_REQUIRED"
	ServerConfigSaved    ID = "SERVER_CONFIG_SAVED"
	LoginSuccess         ID = "LOGIN_SUCCESS"
	LogoutSuccess        ID = "LOGOUT_SUCCESS"
	StatusWritten        ID = "STATUS_WRITTEN"
	SSLBundleNotFound    ID = "SSL_BUNDLE_NOT_FOUND"

	// Generic lifecycle
	ResourceAdded      ID = "RESOURCE_ADDED"
	ResourceUpdated    ID = "RESOURCE_UPDATED"
	ResourceRemoved    ID = "RESOURCE_REMOVED"
	DoesNotExist       ID = "DOES_NOT_EXIST"
	NoneExist          ID = "NONE_EXIST"
	NoneExistToRemove  ID = "NONE_EXIST_TO_REMOVE"
	ClearAllSuccess    ID = "CLEAR_ALL_SUCCESS"
	ClearAllPartial    ID = "CLEAR_ALL_PARTIAL"
	NameResolutionErr  ID = "NAME_RESOLUTION_ERROR"
	NameInvalid        ID = "NAME_INVALID"
	EditNoArgs         ID = "EDIT_NO_ARGS"
	NextResultsPrompt  ID = "NEXT_RESULTS_PROMPT"
	WriteFileSuccess   ID = "WRITE_FILE_SUCCESS"
	OutputDirNotExist  ID = "OUTPUT_DIR_NOT_EXIST"
	OutputFileRequired ID = "OUTPUT_FILE_REQUIRED"

	// Credentials
	CredTypeRequired       ID = "CRED_TYPE_REQUIRED"
	CredTypeInvalid        ID = "CRED_TYPE_INVALID"
	CredNetworkOnly        ID = "CRED_NETWORK_ONLY"
	CredSecretRequired     ID = "CRED_SECRET_REQUIRED"
	CredPasswordRequired   ID = "CRED_PASSWORD_REQUIRED"
	CredKeyfileNotFound    ID = "CRED_KEYFILE_NOT_FOUND"
	CredKeyfileNotAbsolute ID = "CRED_KEYFILE_NOT_ABSOLUTE"
	CredBecomeInvalid      ID = "CRED_BECOME_INVALID"

	// Sources
	SourceHostsEmpty        ID = "SOURCE_HOSTS_CANNOT_BE_EMPTY"
	SourceHostInvalid       ID = "SOURCE_HOST_INVALID"
	SourceCredsEmpty        ID = "SOURCE_CREDS_CANNOT_BE_EMPTY"
	SourceTypeInvalid       ID = "SOURCE_TYPE_INVALID"
	PortInvalid             ID = "PORT_INVALID"
	SourceOptionWrongType   ID = "SOURCE_OPTION_WRONG_TYPE"
	SourceOptionNotBool     ID = "SOURCE_OPTION_NOT_BOOL"
	SourceExcludeNetOnly    ID = "SOURCE_EXCLUDE_NETWORK_ONLY"
	SourceMultipleHostsOnly ID = "SOURCE_SINGLE_HOST_ONLY"

	// Scans and jobs
	ScanStarted           ID = "SCAN_STARTED"
	ScanPaused            ID = "SCAN_PAUSED"
	ScanCanceled          ID = "SCAN_CANCELED"
	ScanRestarted         ID = "SCAN_RESTARTED"
	ScanSourcesEmpty      ID = "SCAN_SOURCES_CANNOT_BE_EMPTY"
	ScanProductInvalid    ID = "SCAN_PRODUCT_INVALID"
	ScanDirNotAbsolute    ID = "SCAN_DIR_NOT_ABSOLUTE"
	ScanConcurrencyBounds ID = "SCAN_CONCURRENCY_BOUNDS"
	ScanJobIDStatus       ID = "SCAN_JOB_ID_STATUS_CONFLICT"

	// Reports
	ReportMergeStarted  ID = "REPORT_MERGE_STARTED"
	ReportMergeStatus   ID = "REPORT_MERGE_STATUS"
	ReportMergeReportID ID = "REPORT_MERGE_REPORT_ID"
	ReportNoReportID    ID = "REPORT_NO_REPORT_ID"
	ReportMergeTooFew   ID = "REPORT_MERGE_TOO_FEW"

	// Secret prompting
	PromptNoTTY ID = "PROMPT_NO_TTY"

	// Insights
	InsightsUploadSuccess  ID = "INSIGHTS_UPLOAD_SUCCESS"
	InsightsUploadFailed   ID = "INSIGHTS_UPLOAD_FAILED"
	InsightsClientMissing  ID = "INSIGHTS_CLIENT_MISSING"
	InsightsReportRequired ID = "INSIGHTS_REPORT_REQUIRED"
)

var catalog = map[ID]string{
	ConnectionError:      "A connection error occurred while attempting to communicate with the server.",
	SSLError:             "A SSL connection error occurred while attempting to communicate with the server.",
	ServerConfigRequired: "Configure server using command below:\n$ qpc server config --host HOST --port PORT",
	ServerLoginRequired:  "Log in using the command below:\n$ qpc server login",
	ServerConfigSaved:    "Server connection was successfully configured.",
	LoginSuccess:         "Login successful.",
	LogoutSuccess:        "Logged out.",
	StatusWritten:        "Server status written to %s.",
	SSLBundleNotFound:    "The SSL certificate bundle %s does not exist.",

	ResourceAdded:      "%s %q was added.",
	ResourceUpdated:    "%s %q was updated.",
	ResourceRemoved:    "%s %q was removed.",
	DoesNotExist:       "%s %q does not exist.",
	NoneExist:          "No %s exist yet.",
	NoneExistToRemove:  "No %s exist to be removed.",
	ClearAllSuccess:    "All %s were removed.",
	ClearAllPartial:    "Some %s were removed. However, an error occurred while removing the following %s: %s.",
	NameResolutionErr:  "An error occurred while processing the %q input. See the log for more information.",
	NameInvalid:        "Value %q is not a valid name. Names may be at most 64 printable characters.",
	EditNoArgs:         "No arguments provided to edit %s %q.",
	NextResultsPrompt:  "Press enter to see the next set of results.",
	WriteFileSuccess:   "Report written to %s (%s).",
	OutputDirNotExist:  "The directory %s does not exist.",
	OutputFileRequired: "An output file location is required.",

	CredTypeRequired:       "A credential type is required for this operation.",
	CredTypeInvalid:        "Credential type %q is not valid. Valid types: network, vcenter, satellite.",
	CredNetworkOnly:        "The %s option is only valid for network credentials.",
	CredSecretRequired:     "A password or SSH key file is required for network credentials.",
	CredPasswordRequired:   "A password is required for %s credentials.",
	CredKeyfileNotFound:    "The SSH key file %s does not exist.",
	CredKeyfileNotAbsolute: "The SSH key file path %s must be absolute.",
	CredBecomeInvalid:      "Become method %q is not valid. Valid methods: %s.",

	SourceHostsEmpty:        "Source hosts cannot be an empty list.",
	SourceHostInvalid:       "Host value %q is not a valid host, IP, CIDR, or range.",
	SourceCredsEmpty:        "Source credentials cannot be an empty list.",
	SourceTypeInvalid:       "Source type %q is not valid. Valid types: network, vcenter, satellite.",
	PortInvalid:             "Port %d is not valid. Ports must be in the range 0-65535.",
	SourceOptionWrongType:   "The %s option is not valid for %s sources.",
	SourceOptionNotBool:     "The %s option must be true or false.",
	SourceExcludeNetOnly:    "Excluded hosts are only valid for network sources.",
	SourceMultipleHostsOnly: "%s sources must have a single host, IP, or hostname.",

	ScanStarted:           "Scan %q started.",
	ScanPaused:            "Scan job %q paused.",
	ScanCanceled:          "Scan job %q canceled.",
	ScanRestarted:         "Scan job %q restarted.",
	ScanSourcesEmpty:      "Scan sources cannot be an empty list.",
	ScanProductInvalid:    "Product %q is not valid. Valid products: %s.",
	ScanDirNotAbsolute:    "Search directory %s must be an absolute path.",
	ScanConcurrencyBounds: "Max concurrency must be a positive integer.",
	ScanJobIDStatus:       "The --status filter cannot be used with --id; a job id selects a single job.",

	ReportMergeStarted:  "Report merge job %q started.",
	ReportMergeStatus:   "Merge job %q is %s.",
	ReportMergeReportID: "The merged report id is %q.",
	ReportNoReportID:    "Scan job %q has not produced a report.",
	ReportMergeTooFew:   "At least two scan job ids are required to merge.",

	PromptNoTTY: "A secret value is required but no terminal is available for prompting.",

	InsightsUploadSuccess:  "Report %q was uploaded to insights.",
	InsightsUploadFailed:   "Report %q could not be uploaded to insights. See the log for more information.",
	InsightsClientMissing:  "The insights-client tool could not be found on this system.",
	InsightsReportRequired: "A report id or scan job id is required for upload.",
}

// Lookup returns the catalog string for id interpolated with args.
// Panics on an unknown id.
func Lookup(id ID, args ...any) string {
	format, ok := catalog[id]
	if !ok {
		panic(fmt.Sprintf("messages: unknown message id %q", id))
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
