package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Темы писем.
const (
	SubjectVerification  = "Verify your email"
	SubjectPasswordReset = "Reset your password"
)

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`<h1>Verify your Email</h1>
<p>Please click this <a href="{{.Link}}">link</a> to verify your email</p>
`))

	passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<h1>Reset Your Password</h1>
<p>Please click this <a href="{{.Link}}">link</a> to reset your password</p>
`))
)

// VerificationEmail рендерит письмо подтверждения адреса.
func VerificationEmail(link string) (string, error) {
	return render(verificationTmpl, link)
}

// PasswordResetEmail рендерит письмо сброса пароля.
func PasswordResetEmail(link string) (string, error) {
	return render(passwordResetTmpl, link)
}

func render(t *template.Template, link string) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return "", fmt.Errorf("mail.templates.%s: %w", t.Name(), err)
	}

	return buf.String(), nil
}
