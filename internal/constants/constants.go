package constants

const (
	AppName = "rollcall"

	// DateFormat is the on-disk date layout (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the on-disk wall-clock layout (HH:MM, 24-hour)
	TimeFormat = "15:04"

	DefaultTargetAttendance = 75.0

	// Reminder constants
	ClassReminderHour    = 7
	TaskReminderHour     = 9
	ClassReminderDays    = 7
	TaskReminderLeadDays = 1

	// Setting keys
	SettingClassReminders = "class_reminders"
	SettingTaskReminders  = "task_reminders"

	// Tray notifier constants
	NotifierLockfileName   = "rollcall-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.sadopc.rollcall"
	TrayExecutablePrefix   = "rollcall-tray"
)
