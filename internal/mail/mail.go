package mail

import "fmt"

// Mailer sends a single-button notification email.
type Mailer interface {
	Send(to, subject, buttonLink, buttonText, purpose string) error
}

func renderBody(subject, buttonLink, buttonText, purpose string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 20px auto; background: #ffffff; padding: 20px; border-radius: 8px;">
    <div style="background-color: #007bff; color: #ffffff; text-align: center; padding: 10px; border-radius: 8px 8px 0 0;">
      <h2>%s</h2>
    </div>
    <div style="padding: 20px; text-align: center;">
      <p><strong>Purpose:</strong> %s</p>
      <p>Click the button below to proceed:</p>
      <a href="%s" style="display: inline-block; padding: 12px 20px; background-color: #007bff; color: #ffffff; text-decoration: none; border-radius: 5px; font-weight: bold;">%s</a>
    </div>
    <div style="margin-top: 20px; text-align: center; color: #777; font-size: 12px;">
      <p>If you didn't request this email, please ignore it.</p>
    </div>
  </div>
</body>
</html>`, subject, purpose, buttonLink, buttonText)
}
