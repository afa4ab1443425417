package constants

// AppName is used for the default config directory, the keyring service
// name and the log prefix.
const AppName = "remindue"

// DefaultKeyringUser is the keyring account under which the database
// connection string is stored.
const DefaultKeyringUser = "default"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// DefaultDueTime is the time-of-day applied when a due date is given
// without a time.
const DefaultDueTime = "09:00"

// ShortWindowSec is the threshold below which an absolute-time trigger is
// replaced by a relative delay. Imminent absolute triggers are unreliable
// on some notification backends.
const ShortWindowSec = 90

// AckDelaySec is the fixed delay of the fire-and-forget acknowledgement
// notification sent after an obligation is added.
const AckDelaySec = 10

// DefaultSnoozeDays is the shift applied by the notification snooze action.
const DefaultSnoozeDays = 1

// SoonThresholdDays marks obligations due within this many days as "Soon"
// in list output.
const SoonThresholdDays = 3

// Notification action identifiers recognized by the dispatcher.
const (
	ActionSnooze = "SNOOZE"
	ActionDelete = "DELETE"
)

// Tray integration. The tray app writes a lockfile with its port, pid and
// webhook secret; notifications are delivered to it over loopback HTTP.
const (
	TrayAppIdentifier      = "remindue-tray"
	TrayLockfileName       = "remindue-tray.lock"
	NotificationDurationMs = 10000
)

// DefaultActionListenAddr is the loopback address on which the gateway
// accepts notification action callbacks from the tray.
const DefaultActionListenAddr = "127.0.0.1:7341"
