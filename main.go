package main

import (
	"net/http"
	"os"
	"time"

	"github.com/staffroomhq/staffroom-api/config"
	"github.com/staffroomhq/staffroom-api/internal/monitor"
	"github.com/staffroomhq/staffroom-api/server"
	"github.com/staffroomhq/staffroom-api/version"

	log "github.com/sirupsen/logrus"
)

func main() {
	config.InitConfig()
	monitor.SetupLogging()

	// this is a *client-side* timeout (for when we make http requests, not when we serve them)
	http.DefaultClient.Timeout = 20 * time.Second

	if len(os.Args) < 2 {
		log.Errorf("usage: %s COMMAND", os.Args[0])
		return
	}

	command := os.Args[1]
	switch command {
	case "version":
		log.Printf("staffroom-api %v", version.GetFullBuildName())
	case "serve":
		log.Printf("staffroom-api %v starting", version.GetDevVersion())
		server.ServeUntilInterrupted()
	default:
		log.Errorf("invalid command: '%s'", command)
	}
}
