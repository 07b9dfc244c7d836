package smtpintake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMessage_PlainText(t *testing.T) {
	raw := "From: Ana <ana@example.com>\r\n" +
		"Subject: Status do chamado\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Qual o status do chamado 123?\r\n"

	msg := parseMessage([]byte(raw))

	assert.Equal(t, "Status do chamado", msg.Subject)
	assert.Equal(t, "ana@example.com", msg.From)
	assert.Equal(t, "Assunto: Status do chamado\n\nQual o status do chamado 123?", msg.Content())
}

func TestParseMessage_MultipartWithCharsetAndAttachment(t *testing.T) {
	raw := "From: joao@example.com\r\n" +
		"Subject: =?ISO-8859-1?Q?Solicita=E7=E3o?=\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=XYZ\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/plain; charset=iso-8859-1\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Preciso de atualiza=E7=E3o.\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>ignorado</p>\r\n" +
		"--XYZ\r\n" +
		"Content-Type: application/pdf\r\n" +
		"Content-Disposition: attachment; filename=doc.pdf\r\n" +
		"\r\n" +
		"%PDF-1.4\r\n" +
		"--XYZ--\r\n"

	msg := parseMessage([]byte(raw))

	assert.Equal(t, "Solicitação", msg.Subject)
	assert.Contains(t, msg.Body, "Preciso de atualização.")
	assert.NotContains(t, msg.Content(), "ignorado")
	assert.NotContains(t, msg.Content(), "PDF")
}

func TestParseMessage_HTMLOnlyFallback(t *testing.T) {
	raw := "Subject: Oi\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>Obrigado!</p>"

	msg := parseMessage([]byte(raw))

	assert.Equal(t, "<p>Obrigado!</p>", msg.Body)
}

func TestParsedMessage_ContentEmpty(t *testing.T) {
	assert.Equal(t, "", parsedMessage{Body: "  \r\n "}.Content())
	assert.Equal(t, "Assunto: Oi", parsedMessage{Subject: "Oi"}.Content())
}
