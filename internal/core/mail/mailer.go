package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Sender 邮件出口，便于测试替换
type Sender interface {
	SendPasswordReset(to, firstName, userID, token string) error
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type Mailer struct {
	opts Options
	tpl  *template.Template
}

var resetTpl = template.Must(template.New("reset").Parse(`<html>
<body>
  <p>Hi {{.FirstName}},</p>
  <p>We received a request to reset your password. The link below is valid for one hour:</p>
  <p><a href="{{.Link}}">Reset your password</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</body>
</html>`))

func New(opts Options) *Mailer {
	return &Mailer{opts: opts, tpl: resetTpl}
}

func (m *Mailer) SendPasswordReset(to, firstName, userID, token string) error {
	link := fmt.Sprintf("%s/users/%s/reset-password/%s", m.opts.BaseURL, userID, token)

	var body bytes.Buffer
	if err := m.tpl.Execute(&body, map[string]string{
		"FirstName": firstName,
		"Link":      link,
	}); err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.opts.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset")
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.opts.Host, m.opts.Port, m.opts.Username, m.opts.Password)
	return d.DialAndSend(msg)
}
