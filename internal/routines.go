package internal

import (
	"os"
	"strconv"

	"github.com/robfig/cron/v3"

	"github.com/wasex/go-whatsapp-sender-console/pkg/log"
)

// Routines registers the periodic session health check. whatsmeow reconnects
// on its own, the cron only keeps a visible trace of the session state in
// the logs.
func Routines(cron *cron.Cron, console *App) {
	log.Print(nil).Info("Running Routine Tasks")

	if !isHealthCheckEnabled() {
		log.Print(nil).Info("Health check cron disabled; relying on whatsmeow event handlers")
		return
	}

	_, err := cron.AddFunc("0 */5 * * * *", func() {
		if console.Session.IsConnected() {
			log.Print(nil).WithField("contacts", console.Contacts.Len()).Info("Session healthy")
			return
		}
		log.Print(nil).Warn("Session disconnected")
	})
	if err != nil {
		log.Print(nil).WithField("error", err.Error()).Error("Failed to add health check cron job")
	}

	cron.Start()
}

func isHealthCheckEnabled() bool {
	envValue, ok := os.LookupEnv("WHATSAPP_ENABLE_HEALTH_CHECK_CRON")
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(envValue)
	if err != nil {
		log.Print(nil).Warn("Invalid WHATSAPP_ENABLE_HEALTH_CHECK_CRON value; defaulting to enabled")
		return true
	}
	return enabled
}
