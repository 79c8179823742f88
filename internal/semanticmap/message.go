package semanticmap

// actionMessages maps a canonical event_action to the human-readable
// summary shown in the timeline UI. An action with no entry here is
// displayed as-is.
var actionMessages = map[string]string{
	"auth_checkpoint_init":      "Account verification request",
	"auth_checkpoint_pass":      "Account verification passed",
	"data_export_request":       "Data export requested by user",
	"email_addition":            "Email added",
	"password_reset_request":    "Password reset requested by user",
	"recovery_contact_addition": "Recovery/legacy contact added",
	"legacy_contact_addition":   "Recovery/legacy contact added",
	"user_login_success":        "Successful login",
	"user_logout":               "Logout",
	"user_password_change":      "Password changed",
}

// messageForAction resolves the human-readable message for an event's
// action, defaulting to the action string itself when unmapped.
func messageForAction(action string) string {
	if msg, ok := actionMessages[action]; ok {
		return msg
	}
	return action
}
