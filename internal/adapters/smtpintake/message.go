package smtpintake

import (
	"bytes"
	"io"
	"mime"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// parsedMessage is the part of an inbound message that is triaged
type parsedMessage struct {
	Subject string
	From    string
	Body    string
}

// Content renders the message as the text handed to the classifier
func (m parsedMessage) Content() string {
	body := strings.TrimSpace(m.Body)
	if m.Subject == "" {
		return body
	}
	if body == "" {
		return "Assunto: " + m.Subject
	}
	return "Assunto: " + m.Subject + "\n\n" + body
}

// parseMessage extracts the subject and the text/plain parts of a raw RFC 5322
// message, decoding transfer encodings and charsets. HTML is only used when
// the message has no plain text part.
func parseMessage(raw []byte) parsedMessage {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return parsedMessage{Body: string(raw)}
	}
	defer mr.Close()

	var msg parsedMessage
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = strings.TrimSpace(subject)
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}

	var plain []string
	var html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
		if err != nil || contentType == "" {
			contentType = "text/plain"
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			plain = append(plain, string(body))
		case "text/html":
			if html == "" {
				html = string(body)
			}
		}
	}

	if len(plain) > 0 {
		msg.Body = strings.Join(plain, "\n")
	} else {
		msg.Body = html
	}
	return msg
}
