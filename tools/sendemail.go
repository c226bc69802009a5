package tools

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/nishp77/thenewboston-node/log"
)

// alert mail transport, populated once at startup from the Email config
// section and used by the chain audit worker to report corruption
var (
	smtpAddr    string
	smtpAuth    smtp.Auth
	alertSender string
)

// InitEmailConfig prepares the smtp transport for node alert mails.
func InitEmailConfig(server string, port int, from, name, password string) {
	smtpAddr = net.JoinHostPort(server, fmt.Sprintf("%d", port))
	smtpAuth = smtp.PlainAuth("", from, password, server)
	if name != "" {
		alertSender = fmt.Sprintf("%s <%s>", name, from)
	} else {
		alertSender = from
	}
}

// SendEmail sends a plain text alert mail to the configured operators.
func SendEmail(to, cc []string, subject, content string) error {
	return SendEmailWithAttach(to, cc, subject, content, nil)
}

// SendEmailWithAttach sends an alert mail with attached files, for
// example a dump of the diverging chain segment. Files that cannot be
// attached are skipped so the alert itself still goes out.
func SendEmailWithAttach(to, cc []string, subject, content string, attachFiles []string) error {
	m := email.NewEmail()
	m.From = alertSender
	m.To = to
	m.Cc = cc
	m.Subject = subject
	m.Text = []byte(content)
	for _, file := range attachFiles {
		if _, err := m.AttachFile(file); err != nil {
			log.Warn("attach file to alert mail failed", "file", file, "err", err)
		}
	}
	return m.Send(smtpAddr, smtpAuth)
}
