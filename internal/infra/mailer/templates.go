package mailer

import "strings"

// welcomeEmailTemplate is the HTML body of the welcome email.
// Placeholders: {{name}}, {{intro}}.
const welcomeEmailTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#141414;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#1f1f1f;border-radius:8px;">
          <tr>
            <td style="padding:32px;">
              <h1 style="color:#fdd458;font-size:24px;margin:0 0 16px;">Welcome aboard, {{name}}!</h1>
              <p style="color:#d1d1d1;font-size:16px;line-height:1.6;margin:0 0 24px;">{{intro}}</p>
              <p style="color:#d1d1d1;font-size:16px;line-height:1.6;margin:0 0 24px;">
                Here's what you can do right now:
              </p>
              <ul style="color:#d1d1d1;font-size:16px;line-height:1.8;margin:0 0 24px;padding-left:20px;">
                <li>Build your watchlist to follow the stocks you care about</li>
                <li>Get a daily AI-powered summary of news for your watchlist</li>
                <li>Search thousands of symbols across global exchanges</li>
              </ul>
              <p style="color:#8f8f8f;font-size:14px;margin:0;">&mdash; The Signalist team</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// newsSummaryEmailTemplate is the HTML body of the daily digest email.
// Placeholders: {{date}}, {{newsContent}}.
const newsSummaryEmailTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#141414;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#1f1f1f;border-radius:8px;">
          <tr>
            <td style="padding:32px;">
              <h1 style="color:#fdd458;font-size:22px;margin:0 0 8px;">Market News Summary</h1>
              <p style="color:#8f8f8f;font-size:14px;margin:0 0 24px;">{{date}}</p>
              <div style="color:#d1d1d1;font-size:16px;line-height:1.6;">{{newsContent}}</div>
              <p style="color:#8f8f8f;font-size:12px;margin:24px 0 0;">
                You are receiving this because you subscribed to daily market news from Signalist.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// renderWelcomeEmail substitutes the recipient name and greeting into the
// welcome template.
func renderWelcomeEmail(name, intro string) string {
	body := strings.ReplaceAll(welcomeEmailTemplate, "{{name}}", name)
	return strings.ReplaceAll(body, "{{intro}}", intro)
}

// renderNewsSummaryEmail substitutes the date and summary HTML into the
// digest template.
func renderNewsSummaryEmail(date, newsContent string) string {
	body := strings.ReplaceAll(newsSummaryEmailTemplate, "{{date}}", date)
	return strings.ReplaceAll(body, "{{newsContent}}", newsContent)
}
