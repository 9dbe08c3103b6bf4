package model

// Package model contains the domain types exchanged between the HTTP layer,
// the conversion service, and the artifact store. No persistence or
// framework tags beyond JSON.

// FileInput is one uploaded file: its original display name and raw bytes.
// It is owned by the request that carries it and never persisted.
type FileInput struct {
	DisplayName string
	Data        []byte
}

// ConversionOutcome reports the result of converting one input file. The
// outcome list of a batch is ordered position-for-position with the inputs,
// so callers can correlate by index.
type ConversionOutcome struct {
	DisplayName string `json:"display_name"`
	Converted   bool   `json:"converted"`
	StoredName  string `json:"stored_name,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// SuccessOutcome builds the outcome for a file that converted and was stored.
func SuccessOutcome(displayName, storedName string, size int64) ConversionOutcome {
	return ConversionOutcome{
		DisplayName: displayName,
		Converted:   true,
		StoredName:  storedName,
		SizeBytes:   size,
	}
}

// FailureOutcome builds the outcome for a file that could not be converted.
// No partial artifact is left behind for failed files.
func FailureOutcome(displayName, reason string) ConversionOutcome {
	return ConversionOutcome{
		DisplayName: displayName,
		Converted:   false,
		Reason:      reason,
	}
}
