package integration

// SystemCode identifies an external system the catalog synchronizes with
type SystemCode string

const (
	// SystemCodeEcount represents the ECount ERP inventory system
	SystemCodeEcount SystemCode = "ECOUNT"
)

// IsValid returns true if the system code is valid
func (c SystemCode) IsValid() bool {
	switch c {
	case SystemCodeEcount:
		return true
	default:
		return false
	}
}

// String returns the string representation of SystemCode
func (c SystemCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// SyncDirection
// ---------------------------------------------------------------------------

// SyncDirection records which way the last synchronization moved data
type SyncDirection string

const (
	// SyncDirectionPush indicates the catalog pushed its record to the external system
	SyncDirectionPush SyncDirection = "PUSH"
	// SyncDirectionPull indicates the external system's record was imported
	SyncDirectionPull SyncDirection = "PULL"
)

// ---------------------------------------------------------------------------
// SourceOfTruth
// ---------------------------------------------------------------------------

// SourceOfTruth marks which side is authoritative for the synced field set
type SourceOfTruth string

const (
	// SourceOfTruthMaster marks the internal master record as authoritative
	SourceOfTruthMaster SourceOfTruth = "MASTER"
	// SourceOfTruthExternal marks the external system as authoritative
	SourceOfTruthExternal SourceOfTruth = "EXTERNAL"
)

// ---------------------------------------------------------------------------
// SyncOutcome
// ---------------------------------------------------------------------------

// SyncOutcome reports the result of a sync attempt. Skipped is true when no
// connector is configured for the target system, which is a supported
// deployment mode rather than an error.
type SyncOutcome struct {
	Skipped bool
}
