package version

// Version is overridden at build time via
// -ldflags "-X github.com/TwilightLilyy/umatrack/internal/version.Version=v1.2.3".
var Version = "dev"
