// Package mail renders and delivers outbound email over SMTP.
package mail

// Message is one outbound email. It is also the JSON payload of queued
// mail jobs, attachment bytes travel base64 encoded.
type Message struct {
	To          []string     `json:"to"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
