package mailer

import "log"

// Sender delivers verification codes to users. Delivery is best-effort: a
// failed send never rolls back OTP issuance.
type Sender interface {
	SendOTP(email, code string) error
}

// LogSender writes codes to the process log instead of sending mail. Used in
// development and tests; production wires a real transport behind Sender.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendOTP(email, code string) error {
	log.Printf("INFO [mailer] OTP for %s: %s", email, code)
	return nil
}
