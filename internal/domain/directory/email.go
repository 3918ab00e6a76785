package directory

import (
	"fmt"
	"html"
	"strings"
)

const CredentialsSubject = "Your SSJ IT Consultance Account Credentials"

const credentialsTemplate = `<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #0078d4; color: white; padding: 10px 20px; }
    .content { padding: 20px; border: 1px solid #ddd; }
    .credentials { background-color: #f9f9f9; padding: 15px; margin: 15px 0; border-left: 4px solid #0078d4; }
    .footer { font-size: 12px; color: #777; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>SSJ IT Consultance</h2>
    </div>
    <div class="content">
      <p>Hello %s,</p>
      <p>Welcome to SSJ IT Consultance! Your account has been created.</p>
      <div class="credentials">
        <p><strong>Your login credentials are:</strong></p>
%s        <p>Password: %s</p>
      </div>
      <p>Please login at: <a href="%s">%s</a></p>
      <p>For security reasons, please change your password after your first login.</p>
      <p>Best regards,<br>SSJ IT Consultance HR Team</p>
    </div>
    <div class="footer">
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`

// CredentialsEmail renders the welcome mail. The employee number line is
// included only when one was allocated; otherwise the email address serves
// as the login identifier.
func CredentialsEmail(name, employeeNumber, email, password, loginURL string) string {
	var identifiers strings.Builder
	if employeeNumber != "" {
		fmt.Fprintf(&identifiers, "        <p>Employee ID: %s</p>\n", html.EscapeString(employeeNumber))
	}
	fmt.Fprintf(&identifiers, "        <p>Email: %s</p>\n", html.EscapeString(email))

	return fmt.Sprintf(credentialsTemplate,
		html.EscapeString(strings.TrimSpace(name)),
		identifiers.String(),
		html.EscapeString(password),
		loginURL, loginURL,
	)
}
