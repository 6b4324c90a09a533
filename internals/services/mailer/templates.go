// internals/services/mailer/templates.go
package mailer

import (
	"errors"
	"html/template"
)

// Template identifiers used by the handlers.
const (
	TemplateWelcome       = "welcome_email"
	TemplateDeleteTeacher = "delete_teacher"
	TemplateOTP           = "otp_email"
	TemplateLowAttendance = "low_attendance_alert"
)

var (
	errUnknownTemplate = errors.New("mailer: unknown template")
	errDeliveryFailed  = errors.New("mailer: delivery failed")
)

var templates = map[string]*template.Template{
	TemplateWelcome: template.Must(template.New(TemplateWelcome).Parse(`
<html><body>
<h2>Welcome to EduMet, {{.name}}!</h2>
<p>Your {{if .type}}{{.type}} {{end}}account for {{.school}} has been created.</p>
<p>Login credentials:</p>
<ul>
  <li>Username: <b>{{.username}}</b></li>
  <li>Password: <b>{{.password}}</b></li>
</ul>
<p>Please change your password after your first login.</p>
<p>&copy; {{.current_year}} EduMet</p>
</body></html>`)),

	TemplateDeleteTeacher: template.Must(template.New(TemplateDeleteTeacher).Parse(`
<html><body>
<h2>Goodbye from EduMet</h2>
<p>Dear {{.name}}, the account linked to {{.email}} has been permanently removed.</p>
<p>&copy; {{.current_year}} EduMet</p>
</body></html>`)),

	TemplateOTP: template.Must(template.New(TemplateOTP).Parse(`
<html><body>
<h2>Your EduMet Login OTP</h2>
<p>Hi {{.name}},</p>
<p>Your one-time code is <b>{{.otp}}</b>. It expires in 10 minutes.</p>
<p>&copy; {{.current_year}} EduMet</p>
</body></html>`)),

	TemplateLowAttendance: template.Must(template.New(TemplateLowAttendance).Parse(`
<html><body>
<h2>Low Attendance Alert</h2>
<p>Dear {{.name}} ({{.student_id}}),</p>
<p>You were present on {{.present_count}} of {{.total_working_days}} working days ({{.percentage}}%).</p>
<p>Please make sure your attendance improves.</p>
<p>&copy; {{.current_year}} EduMet</p>
</body></html>`)),
}
