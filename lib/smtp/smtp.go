package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

type Provider interface {
	// SendEMail sends a plain text message to a single recipient.
	SendEMail(from, to, message, subject string) error
	// SendHTML sends a multipart html/text message, optionally with attachments.
	SendHTML(mail Mail) error
	IsConfigured() bool
}

type Attachment struct {
	FileName string
	Body     []byte
}

type Mail struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

const subjectPrefix = "Water Permit System"

func Connect(user, password, host, port string, tlsEnabled bool) error {
	if port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return errors.Errorf("smtp port must be a number: %v", port)
		}
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
}

func (i impl) IsConfigured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(from, to, message, subject string) (err error) {
	logger := log.WithField("sender", from).WithField("recipient", to)
	if !i.IsConfigured() {
		logger.Warn("mail not sent, smtp client is not configured")
		return nil
	}
	sendTo := []string{
		to,
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	mimeHeaders := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\r\n"
	body := strings.NewReader(fmt.Sprintf("Subject: %s - %s\n%s\r\n%s\r\n", subjectPrefix, subject, mimeHeaders, message))

	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.user, sendTo, body)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.user, sendTo, body)
	}
	if err != nil {
		logger.WithError(err).Error("failed to send mail")
		return err
	}
	logger.Info("mail sent")
	return nil
}

func (i impl) SendHTML(mail Mail) error {
	logger := log.WithField("sender", mail.From).WithField("recipients", mail.To)
	if !i.IsConfigured() {
		logger.Warn("mail not sent, smtp client is not configured")
		return nil
	}
	if len(mail.To) == 0 {
		return errors.New("no recipients")
	}
	m := BuildMessage(mail)
	port, _ := strconv.Atoi(i.port)
	dialer := gomail.NewDialer(i.host, port, i.user, i.password)
	dialer.SSL = i.tlsEnabled && port == 465
	if i.tlsEnabled {
		dialer.TLSConfig = &tls.Config{ServerName: i.host}
	}
	if err := dialer.DialAndSend(m); err != nil {
		logger.WithError(err).Error("failed to send mail")
		return errors.Wrap(err, "failed to send mail")
	}
	logger.WithField("attachments", len(mail.Attachments)).Info("mail sent")
	return nil
}

func BuildMessage(mail Mail) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", mail.From)
	m.SetHeader("To", mail.To...)
	m.SetHeader("Subject", fmt.Sprintf("%s - %s", subjectPrefix, mail.Subject))
	if mail.Text != "" {
		m.SetBody("text/plain", mail.Text)
		if mail.HTML != "" {
			m.AddAlternative("text/html", mail.HTML)
		}
	} else {
		m.SetBody("text/html", mail.HTML)
	}
	for _, attachment := range mail.Attachments {
		body := attachment.Body
		m.Attach(attachment.FileName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(body)
			return err
		}))
	}
	return m
}
