package transfer

import (
	"time"
)

// Endpoint represents a transfer endpoint document.
type Endpoint struct {
	ID               string     `json:"id"                          yaml:"id"`
	DisplayName      string     `json:"display_name"                yaml:"display_name"`
	CanonicalName    string     `json:"canonical_name,omitempty"    yaml:"canonical_name,omitempty"`
	Description      string     `json:"description,omitempty"       yaml:"description,omitempty"`
	Owner            string     `json:"owner,omitempty"             yaml:"owner,omitempty"`
	Organization     string     `json:"organization,omitempty"      yaml:"organization,omitempty"`
	Activated        bool       `json:"activated"                   yaml:"activated"`
	ExpiresIn        int        `json:"expires_in"                  yaml:"expires_in"`
	ExpireTime       *time.Time `json:"expire_time,omitempty"       yaml:"expire_time,omitempty"`
	Public           bool       `json:"public"                      yaml:"public"`
	Shareable        bool       `json:"shareable"                   yaml:"shareable"`
	HostEndpointID   string     `json:"host_endpoint_id,omitempty"  yaml:"host_endpoint_id,omitempty"`
	HostPath         string     `json:"host_path,omitempty"         yaml:"host_path,omitempty"`
	DefaultDirectory string     `json:"default_directory,omitempty" yaml:"default_directory,omitempty"`
	Servers          []Server   `json:"servers,omitempty"           yaml:"servers,omitempty"`
}

// Server represents one server attached to an endpoint.
type Server struct {
	ID          int    `json:"id"                 yaml:"id"`
	Hostname    string `json:"hostname"           yaml:"hostname"`
	Port        int    `json:"port,omitempty"     yaml:"port,omitempty"`
	Scheme      string `json:"scheme,omitempty"   yaml:"scheme,omitempty"`
	Subject     string `json:"subject,omitempty"  yaml:"subject,omitempty"`
	Uri         string `json:"uri,omitempty"      yaml:"uri,omitempty"`
	Incoming    string `json:"incoming,omitempty" yaml:"incoming,omitempty"`
	Outgoing    string `json:"outgoing,omitempty" yaml:"outgoing,omitempty"`
	IsPaused    bool   `json:"is_paused"          yaml:"is_paused"`
	IsConnected bool   `json:"is_connected"       yaml:"is_connected"`
}

// ActivationRequirements describes what an endpoint needs before use.
type ActivationRequirements struct {
	Activated               bool                    `json:"activated"                 yaml:"activated"`
	ExpiresIn               int                     `json:"expires_in"                yaml:"expires_in"`
	AutoActivationSupported bool                    `json:"auto_activation_supported" yaml:"auto_activation_supported"`
	Requirements            []ActivationRequirement `json:"requirements"              yaml:"requirements"`
}

// ActivationRequirement is a single credential field an activation needs.
type ActivationRequirement struct {
	Type     string `json:"type"     yaml:"type"`
	Name     string `json:"name"     yaml:"name"`
	Value    string `json:"value"    yaml:"value"`
	Required bool   `json:"required" yaml:"required"`
	Private  bool   `json:"private"  yaml:"private"`
}

// Task represents a transfer or delete task.
type Task struct {
	TaskID                string     `json:"task_id"                  yaml:"task_id"`
	Type                  string     `json:"type"                     yaml:"type"`
	Status                string     `json:"status"                   yaml:"status"`
	Label                 string     `json:"label,omitempty"          yaml:"label,omitempty"`
	OwnerID               string     `json:"owner_id,omitempty"       yaml:"owner_id,omitempty"`
	SourceEndpointID      string     `json:"source_endpoint_id,omitempty"      yaml:"source_endpoint_id,omitempty"`
	DestinationEndpointID string     `json:"destination_endpoint_id,omitempty" yaml:"destination_endpoint_id,omitempty"`
	RequestTime           time.Time  `json:"request_time"             yaml:"request_time"`
	Deadline              *time.Time `json:"deadline,omitempty"       yaml:"deadline,omitempty"`
	CompletionTime        *time.Time `json:"completion_time,omitempty" yaml:"completion_time,omitempty"`
	Files                 int        `json:"files"                    yaml:"files"`
	Directories           int        `json:"directories"              yaml:"directories"`
	FilesTransferred      int        `json:"files_transferred"        yaml:"files_transferred"`
	BytesTransferred      int64      `json:"bytes_transferred"        yaml:"bytes_transferred"`
	BytesPerSecond        int64      `json:"bytes_per_second"         yaml:"bytes_per_second"`
	Faults                int        `json:"faults"                   yaml:"faults"`
	IsPaused              bool       `json:"is_paused"                yaml:"is_paused"`
}

// Task status values.
const (
	TaskStatusActive    = "ACTIVE"
	TaskStatusInactive  = "INACTIVE"
	TaskStatusSucceeded = "SUCCEEDED"
	TaskStatusFailed    = "FAILED"
)

// TaskEvent is one entry in a task's event log.
type TaskEvent struct {
	Code        string    `json:"code"                  yaml:"code"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Details     string    `json:"details,omitempty"     yaml:"details,omitempty"`
	IsError     bool      `json:"is_error"              yaml:"is_error"`
	Time        time.Time `json:"time"                  yaml:"time"`
}

// PauseInfo describes pause rules currently affecting a task.
type PauseInfo struct {
	PauseRules              []PauseRule `json:"pause_rules"                         yaml:"pause_rules"`
	SourcePauseMessage      string      `json:"source_pause_message,omitempty"      yaml:"source_pause_message,omitempty"`
	DestinationPauseMessage string      `json:"destination_pause_message,omitempty" yaml:"destination_pause_message,omitempty"`
}

// PauseRule is an administrator-defined restriction on endpoint activity.
type PauseRule struct {
	ID            string `json:"id"                       yaml:"id"`
	EndpointID    string `json:"endpoint_id"              yaml:"endpoint_id"`
	Message       string `json:"message,omitempty"        yaml:"message,omitempty"`
	PauseLs       bool   `json:"pause_ls"                 yaml:"pause_ls"`
	PauseMkdir    bool   `json:"pause_mkdir"              yaml:"pause_mkdir"`
	PauseRename   bool   `json:"pause_rename"             yaml:"pause_rename"`
	PauseTaskRuns bool   `json:"pause_task_runs"          yaml:"pause_task_runs"`
}

// Bookmark is a saved endpoint/path pair.
type Bookmark struct {
	ID         string `json:"id"          yaml:"id"`
	Name       string `json:"name"        yaml:"name"`
	EndpointID string `json:"endpoint_id" yaml:"endpoint_id"`
	Path       string `json:"path"        yaml:"path"`
}

// AccessRule is one ACL entry on an endpoint.
type AccessRule struct {
	ID            string `json:"id"             yaml:"id"`
	RoleID        string `json:"role_id,omitempty" yaml:"role_id,omitempty"`
	PrincipalType string `json:"principal_type" yaml:"principal_type"`
	Principal     string `json:"principal"      yaml:"principal"`
	Path          string `json:"path"           yaml:"path"`
	Permissions   string `json:"permissions"    yaml:"permissions"`
}

// Role is an administrative role assignment on an endpoint.
type Role struct {
	ID            string `json:"id"             yaml:"id"`
	PrincipalType string `json:"principal_type" yaml:"principal_type"`
	Principal     string `json:"principal"      yaml:"principal"`
	Role          string `json:"role"           yaml:"role"`
}

// FileEntry is one row of a directory listing.
type FileEntry struct {
	Name         string    `json:"name"                    yaml:"name"`
	Type         string    `json:"type"                    yaml:"type"`
	Size         int64     `json:"size"                    yaml:"size"`
	Permissions  string    `json:"permissions,omitempty"   yaml:"permissions,omitempty"`
	User         string    `json:"user,omitempty"          yaml:"user,omitempty"`
	Group        string    `json:"group,omitempty"         yaml:"group,omitempty"`
	LastModified time.Time `json:"last_modified"           yaml:"last_modified"`
	LinkTarget   string    `json:"link_target,omitempty"   yaml:"link_target,omitempty"`
}

// DirectoryListing is the response to an ls operation.
type DirectoryListing struct {
	Path       string      `json:"path"        yaml:"path"`
	EndpointID string      `json:"endpoint_id" yaml:"endpoint_id"`
	Entries    []FileEntry `json:"data"        yaml:"data"`
}

// OperationResult is the response to a synchronous filesystem operation
// or to an endpoint lifecycle action.
type OperationResult struct {
	Code      string `json:"code"                 yaml:"code"`
	Message   string `json:"message,omitempty"    yaml:"message,omitempty"`
	Resource  string `json:"resource,omitempty"   yaml:"resource,omitempty"`
	ID        string `json:"id,omitempty"         yaml:"id,omitempty"`
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
}

// SubmissionID is a single-use token that makes task submission idempotent.
type SubmissionID struct {
	Value string `json:"value" yaml:"value"`
}

// TransferItem is one source/destination pair in a transfer request.
type TransferItem struct {
	SourcePath      string `json:"source_path"          yaml:"source_path"`
	DestinationPath string `json:"destination_path"     yaml:"destination_path"`
	Recursive       bool   `json:"recursive,omitempty"  yaml:"recursive,omitempty"`
}

// TransferRequest is the body of a transfer task submission.
type TransferRequest struct {
	SubmissionID          string         `json:"submission_id"          yaml:"submission_id"`
	SourceEndpointID      string         `json:"source_endpoint_id"     yaml:"source_endpoint_id"`
	DestinationEndpointID string         `json:"destination_endpoint_id" yaml:"destination_endpoint_id"`
	Label                 string         `json:"label,omitempty"        yaml:"label,omitempty"`
	SyncLevel             *int           `json:"sync_level,omitempty"   yaml:"sync_level,omitempty"`
	VerifyChecksum        bool           `json:"verify_checksum,omitempty" yaml:"verify_checksum,omitempty"`
	PreserveTimestamp     bool           `json:"preserve_timestamp,omitempty" yaml:"preserve_timestamp,omitempty"`
	Encrypt               bool           `json:"encrypt_data,omitempty" yaml:"encrypt_data,omitempty"`
	Deadline              *time.Time     `json:"deadline,omitempty"     yaml:"deadline,omitempty"`
	Items                 []TransferItem `json:"data"                   yaml:"data"`
}

// AddItem appends a source/destination pair to the request.
func (r *TransferRequest) AddItem(sourcePath, destinationPath string, recursive bool) {
	r.Items = append(r.Items, TransferItem{
		SourcePath:      sourcePath,
		DestinationPath: destinationPath,
		Recursive:       recursive,
	})
}

// DeleteItem is one path in a delete request.
type DeleteItem struct {
	Path string `json:"path" yaml:"path"`
}

// DeleteRequest is the body of a delete task submission.
type DeleteRequest struct {
	SubmissionID  string       `json:"submission_id"            yaml:"submission_id"`
	EndpointID    string       `json:"endpoint_id"              yaml:"endpoint_id"`
	Label         string       `json:"label,omitempty"          yaml:"label,omitempty"`
	Recursive     bool         `json:"recursive,omitempty"      yaml:"recursive,omitempty"`
	IgnoreMissing bool         `json:"ignore_missing,omitempty" yaml:"ignore_missing,omitempty"`
	Deadline      *time.Time   `json:"deadline,omitempty"       yaml:"deadline,omitempty"`
	Items         []DeleteItem `json:"data"                     yaml:"data"`
}

// AddItem appends a path to the delete request.
func (r *DeleteRequest) AddItem(path string) {
	r.Items = append(r.Items, DeleteItem{Path: path})
}

// TaskSubmission is the response to a transfer or delete submission.
type TaskSubmission struct {
	TaskID       string `json:"task_id"                yaml:"task_id"`
	SubmissionID string `json:"submission_id"          yaml:"submission_id"`
	Code         string `json:"code"                   yaml:"code"`
	Message      string `json:"message,omitempty"      yaml:"message,omitempty"`
	RequestID    string `json:"request_id,omitempty"   yaml:"request_id,omitempty"`
}

// TokenGrant is the token endpoint's response to a credential grant.
// ExpiresIn is in seconds from issuance.
type TokenGrant struct {
	AccessToken    string       `json:"access_token"`
	TokenType      string       `json:"token_type,omitempty"`
	ExpiresIn      int          `json:"expires_in"`
	Scope          string       `json:"scope,omitempty"`
	ResourceServer string       `json:"resource_server,omitempty"`
	RefreshToken   string       `json:"refresh_token,omitempty"`
	OtherTokens    []TokenGrant `json:"other_tokens,omitempty"`
}
