package applemail

// Email is a single parsed record from the listing output format.
// Sender, Date and Preview are optional; callers must handle their absence.
type Email struct {
	Subject string `json:"subject"`
	IsRead  bool   `json:"is_read"`
	Sender  string `json:"sender,omitempty"`
	Date    string `json:"date,omitempty"`
	Preview string `json:"preview,omitempty"`
}
