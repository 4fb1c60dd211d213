package models

// EncryptedRecord is the at-rest form of an entry. Only ID and Date are
// stored in the clear; everything else lives inside Ciphertext.
type EncryptedRecord struct {
	ID         string
	Date       string
	Ciphertext string
	IV         string
	CreatedAt  int64
	UpdatedAt  int64
}

// ReEncryptResult reports a key rotation. TotalRecords counts only records
// that were rotated; failures are listed as "table/id: reason".
type ReEncryptResult struct {
	TotalRecords int
	Errors       []string
}
