package model

const (
	JobTypeReservationReady = "reservation.ready"
	JobTypeOverdueReminder  = "loan.overdue"
)

type Job struct {
	ID   string
	Type string
	Item *Notification
}

// Notification is a message for one reader.
type Notification struct {
	UserID int32  `json:"user_id"`
	Name   string `json:"name"`
	// Contact is an e-mail address or a phone number.
	Contact string `json:"contact"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
