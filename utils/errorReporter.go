package utils

import (
	"log"

	"learnit/config"

	"github.com/rollbar/rollbar-go"
)

var rollbarEnabled bool

// InitErrorReporting configures Rollbar when ROLLBAR_TOKEN is set
func InitErrorReporting() {
	cfg := config.AppConfig
	if cfg.RollbarToken == "" {
		log.Println("ROLLBAR_TOKEN not set, errors are only logged")
		return
	}

	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetServerRoot("learnit")
	rollbar.SetEnabled(true)
	rollbarEnabled = true
}

// CloseErrorReporting flushes queued Rollbar items
func CloseErrorReporting() {
	if rollbarEnabled {
		rollbar.Close()
	}
}

// LogError logs an unexpected failure and forwards it to Rollbar when enabled
func LogError(context string, err error) {
	if err == nil {
		return
	}
	log.Printf("[ERROR] %s: %v", context, err)
	if rollbarEnabled {
		rollbar.Error(err, map[string]interface{}{"context": context})
	}
}
