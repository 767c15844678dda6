package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration. It is built once at
// startup and injected into every collaborator; nothing else in the
// codebase reads the environment.
type Config struct {
	// Remote document bin holding the RSVP collection.
	RemoteBaseURL string
	RemoteBinID   string
	RemoteAPIKey  string

	// Local fallback store and operating mode. With FallbackEnabled
	// the local store absorbs remote failures; without it remote
	// failures are hard errors.
	LocalStorePath  string
	FallbackEnabled bool

	// Email relay.
	EmailBaseURL           string
	EmailServiceID         string
	EmailPublicKey         string
	ConfirmationTemplateID string
	ReminderTemplateID     string
	OrganizerTemplateID    string
	OrganizerEmail         string

	// Fixed party facts interpolated into invitations and emails.
	PartyDate     string
	PartyTime     string
	PartyAddress  string
	StreetParking string
	ContactEmail  string

	// Soft-lock hash for the admin dashboard. Not a security
	// boundary; see the gate package.
	AdminPasswordHash string

	ExportDir string
}

// LoadConfig loads configuration from environment variables or
// defaults. Missing credentials are not an error here: the store and
// mailer detect them and route into their degraded paths.
func LoadConfig() *Config {
	return &Config{
		RemoteBaseURL: getEnv("PARTY_BIN_BASE_URL", "https://api.jsonbin.io/v3/b"),
		RemoteBinID:   getEnv("PARTY_BIN_ID", ""),
		RemoteAPIKey:  getEnv("PARTY_BIN_API_KEY", ""),

		LocalStorePath:  getEnv("PARTY_DATA_PATH", "data/rsvps.db"),
		FallbackEnabled: getBool("PARTY_FALLBACK_ENABLED", true),

		EmailBaseURL:           getEnv("PARTY_EMAIL_BASE_URL", "https://api.emailjs.com"),
		EmailServiceID:         getEnv("PARTY_EMAIL_SERVICE_ID", "service_ekdqhnd"),
		EmailPublicKey:         getEnv("PARTY_EMAIL_PUBLIC_KEY", ""),
		ConfirmationTemplateID: getEnv("PARTY_EMAIL_CONFIRMATION_TEMPLATE", "template_ya1y8zy"),
		ReminderTemplateID:     getEnv("PARTY_EMAIL_REMINDER_TEMPLATE", "template_l0xqkzl"),
		OrganizerTemplateID:    getEnv("PARTY_EMAIL_ORGANIZER_TEMPLATE", "template_organizer"),
		OrganizerEmail:         getEnv("PARTY_ORGANIZER_EMAIL", ""),

		PartyDate:     getEnv("PARTY_DATE", "October 31st, 2025"),
		PartyTime:     getEnv("PARTY_TIME", "8:00 PM"),
		PartyAddress:  getEnv("PARTY_ADDRESS", "1212 Summerfield Dr, Herndon VA 20170"),
		StreetParking: getEnv("PARTY_STREET_PARKING", "Yes, there is street parking available"),
		ContactEmail:  getEnv("PARTY_CONTACT_EMAIL", "your-email@example.com"),

		AdminPasswordHash: getEnv("PARTY_ADMIN_PASSWORD_HASH", "1347871041"),

		ExportDir: getEnv("PARTY_EXPORT_DIR", "."),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
