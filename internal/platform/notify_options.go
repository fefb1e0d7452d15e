package platform

// AppName is reported to notification servers that show the sender.
const AppName = "maskannotate"

// Urgency ranks a notification for servers that support it.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgency defaults to UrgencyLow; errors use UrgencyCritical.
	Urgency Urgency
	// TimeoutMillis of zero uses the platform default.
	TimeoutMillis int32
}
