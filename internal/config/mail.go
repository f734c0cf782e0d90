package config

// MailConfig configures the SMTP relay used for invoices, password reset
// links and contact messages. An empty Host disables delivery; messages
// are then only logged by the mail worker.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Queue    string // RabbitMQ queue carrying outbound mail jobs
}

// Addr returns host:port for the SMTP dialer.
func (m MailConfig) Addr() string {
	return m.Host + ":" + itoa(m.Port)
}

// LoadMailConfig reads MAIL_* variables with development defaults.
func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:     envStr("MAIL_HOST", ""),
		Port:     envInt("MAIL_PORT", 587),
		Username: envStr("MAIL_USERNAME", ""),
		Password: envStr("MAIL_PASSWORD", ""),
		From:     envStr("MAIL_FROM", "no-reply@coworking.local"),
		FromName: envStr("MAIL_FROM_NAME", "Coworking Space"),
		Queue:    envStr("MAIL_QUEUE", "mail.outbound"),
	}
}
